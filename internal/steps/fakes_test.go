package steps

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"memex/internal/domain"
	"memex/internal/pipeline"
	"memex/internal/pipeline/pipelinetest"
	"memex/internal/tasks"
)

var errUnexpectedCall = errors.New("unexpected call")

type fakeClassifier struct {
	calls  int
	answer domain.ContentType
	during func()
}

func (f *fakeClassifier) Classify(context.Context, string) (domain.ContentType, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	return f.answer, nil
}

type fakeScraper struct {
	calls int
	pages map[string]*domain.PageInfo
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (*domain.PageInfo, error) {
	f.calls++
	page, ok := f.pages[url]
	if !ok {
		return nil, errUnexpectedCall
	}
	return page, nil
}

type fakeEmbeds struct {
	calls  int
	embeds map[string]*domain.Embed
	during func()
}

func (f *fakeEmbeds) Fetch(_ context.Context, provider, _ string) (*domain.Embed, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	e, ok := f.embeds[provider]
	if !ok {
		return nil, errUnexpectedCall
	}
	return e, nil
}

type fakeReddit struct {
	post *domain.RedditPost
}

func (f *fakeReddit) FetchPost(context.Context, string) (*domain.RedditPost, error) {
	if f.post == nil {
		return nil, errUnexpectedCall
	}
	return f.post, nil
}

type fakeCatalog struct {
	titles map[string]*domain.CatalogTitle
}

func (f *fakeCatalog) LookupTitle(_ context.Context, id string) (*domain.CatalogTitle, error) {
	t, ok := f.titles[id]
	if !ok {
		return nil, errUnexpectedCall
	}
	return t, nil
}

type fakeTranscriber struct {
	calls int
	text  string
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	f.calls++
	return f.text, nil
}

// taskRecorder captures submitted tasks instead of running them.
type taskRecorder struct {
	mu    sync.Mutex
	tasks []tasks.Task
}

func (r *taskRecorder) Submit(t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *taskRecorder) submitted() []tasks.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tasks.Task(nil), r.tasks...)
}

type fixture struct {
	store       *pipelinetest.MemStore
	classifier  *fakeClassifier
	scraper     *fakeScraper
	embeds      *fakeEmbeds
	reddit      *fakeReddit
	catalog     *fakeCatalog
	transcriber *fakeTranscriber
	tasks       *taskRecorder
	runner      *pipeline.Runner
}

func newFixture() *fixture {
	f := &fixture{
		store:       pipelinetest.NewMemStore(),
		classifier:  &fakeClassifier{answer: domain.ContentTypeBookmark},
		scraper:     &fakeScraper{pages: map[string]*domain.PageInfo{}},
		embeds:      &fakeEmbeds{embeds: map[string]*domain.Embed{}},
		reddit:      &fakeReddit{},
		catalog:     &fakeCatalog{titles: map[string]*domain.CatalogTitle{}},
		transcriber: &fakeTranscriber{text: "hello world"},
		tasks:       &taskRecorder{},
	}
	steps := Default(Deps{
		Store:                f.store,
		Classifier:           f.classifier,
		Scraper:              f.scraper,
		Embeds:               f.embeds,
		Reddit:               f.reddit,
		Catalog:              f.catalog,
		Transcriber:          f.transcriber,
		Tasks:                f.tasks,
		DefaultYouTubeSource: pipeline.YouTubeSourceA,
		Logger:               testLogger(),
	})
	f.runner = pipeline.NewRunner(steps, 0, testLogger())
	return f
}

func (f *fixture) capture(url string) *domain.Item {
	item, err := f.store.CreateItem(context.Background(), domain.NewItem{URL: url})
	if err != nil {
		panic(err)
	}
	return item
}

func (f *fixture) run(item *domain.Item) pipeline.RunReport {
	return f.runner.Run(context.Background(), pipeline.StepContext{ItemID: item.ID, URL: item.URL})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
