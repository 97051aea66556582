package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/cleared-dev/bankcap/internal/config"
	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/extract"
	"github.com/cleared-dev/bankcap/internal/model"
	"github.com/cleared-dev/bankcap/internal/progress"
	"github.com/cleared-dev/bankcap/internal/query"
	"github.com/cleared-dev/bankcap/internal/rates"
	"github.com/cleared-dev/bankcap/internal/store"
	"github.com/cleared-dev/bankcap/internal/transform"
)

// Milestone lines written to the progress log.
const (
	MsgPreliminaries = "Preliminaries complete. Initiating ETL process"
	MsgExtracted     = "Data extraction complete. Initiating Transformation process"
	MsgTransformed   = "Data transformation complete. Initiating loading process"
	MsgSavedCSV      = "Data saved to CSV file"
	MsgConnection    = "SQL Connection initiated."
	MsgLoadedDB      = "Data loaded to Database as table. Running the query"
	MsgComplete      = "Process Complete."
)

// Extractor produces the raw bank table.
type Extractor interface {
	Extract(ctx context.Context) (*model.Table, error)
}

// Deps are the collaborators a run uses. Zero values select the defaults.
type Deps struct {
	// Extractor defaults to an HTTP extractor for cfg.Source.URL.
	Extractor Extractor
	// Logger defaults to a logger that discards everything.
	Logger *log.Logger
	// Out receives query results as they complete. Nil prints nothing.
	Out io.Writer
	// Clock stamps progress log lines. Defaults to time.Now.
	Clock func() time.Time
}

// Report describes a finished or aborted run.
type Report struct {
	RunID   string
	Stage   Stage // last stage reached
	Table   *model.Table
	Results []query.Result
}

type run struct {
	cfg    *config.Config
	deps   Deps
	log    *log.Logger
	report *Report
	plog   *progress.Log
}

// Run executes one ETL pass: load rates, extract, transform, persist to CSV
// and SQLite, then run the configured queries. Every stage failure aborts the
// run except individual query failures, which are joined into the returned
// error after all queries have run. The returned Report is never nil.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Report, error) {
	r := &run{
		cfg:    cfg,
		deps:   deps,
		log:    deps.Logger,
		report: &Report{RunID: uuid.NewString(), Stage: StageStart},
	}
	if r.log == nil {
		r.log = &log.Logger{Level: log.PanicLevel, Writer: &log.IOWriter{Writer: io.Discard}}
	}

	err := r.execute(ctx)
	if err != nil {
		r.log.Error().Str("run_id", r.report.RunID).Str("stage", r.report.Stage.String()).Err(err).Msg("run failed")
	}
	return r.report, err
}

func (r *run) fail(next Stage, err error) error {
	return &StageError{Stage: next, Err: err}
}

func (r *run) reach(s Stage) {
	r.report.Stage = s
	r.log.Debug().Str("run_id", r.report.RunID).Str("stage", s.String()).Msg("stage reached")
}

// note appends a milestone to the progress log. The log is a side channel:
// a failed write is reported on the console and the run carries on.
func (r *run) note(msg string) {
	if r.plog == nil {
		return
	}
	if err := r.plog.Record(msg); err != nil {
		r.log.Warn().Str("run_id", r.report.RunID).Str("path", r.plog.Path()).Err(err).Msg("progress log write failed")
	}
}

func (r *run) openProgress() {
	plog, err := progress.Open(r.cfg.Output.Log)
	if err != nil {
		r.log.Warn().Str("run_id", r.report.RunID).Str("path", r.cfg.Output.Log).Err(err).Msg("progress log unavailable")
		return
	}
	if r.deps.Clock != nil {
		plog.SetClock(r.deps.Clock)
	}
	r.plog = plog
}

func (r *run) execute(ctx context.Context) (err error) {
	if err := r.cfg.Validate(); err != nil {
		return r.fail(StageRatesLoaded, fmt.Errorf("invalid config: %w", err))
	}

	r.openProgress()
	defer func() {
		if r.plog == nil {
			return
		}
		if cerr := r.plog.Close(); cerr != nil {
			r.log.Warn().Str("run_id", r.report.RunID).Err(cerr).Msg("closing progress log")
		}
	}()

	r.note(MsgPreliminaries)
	started := time.Now()
	r.log.Info().Str("run_id", r.report.RunID).Str("url", r.cfg.Source.URL).Msg("run started")

	rt, err := rates.Load(r.cfg.Rates.Path)
	if err != nil {
		return r.fail(StageRatesLoaded, err)
	}
	r.reach(StageRatesLoaded)
	r.log.Info().Str("run_id", r.report.RunID).Strs("currencies", rt.Codes()).Msg("rates loaded")

	ex, closeEx, err := r.extractor()
	if err != nil {
		return r.fail(StageExtracted, err)
	}
	defer closeEx()

	raw, err := ex.Extract(ctx)
	if err != nil {
		return r.fail(StageExtracted, err)
	}
	r.reach(StageExtracted)
	r.log.Info().Str("run_id", r.report.RunID).Int("rows", raw.Len()).Msg("table extracted")
	r.note(MsgExtracted)

	table := transform.Convert(raw, rt)
	if verrs := model.Validate(table); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return r.fail(StageTransformed, etlerr.NewParseError("validate table", strings.Join(msgs, "; "), nil))
	}
	r.report.Table = table
	r.reach(StageTransformed)
	r.note(MsgTransformed)

	sink := store.NewSink(r.cfg.Output.CSV, r.cfg.Output.DB, r.cfg.Output.Table)
	sink.OnEvent(func(ev store.Event) {
		switch ev {
		case store.EventCSVSaved:
			r.note(MsgSavedCSV)
		case store.EventConnected:
			r.note(MsgConnection)
		}
	})
	out := sink.Persist(ctx, table)
	if out.DB != nil {
		defer func() { err = errors.Join(err, out.DB.Close()) }()
	}
	if out.CSV != nil {
		return r.fail(StagePersistedToFile, out.Err())
	}
	r.reach(StagePersistedToFile)
	if out.Store != nil {
		return r.fail(StagePersistedToStore, out.Store)
	}
	r.reach(StagePersistedToStore)
	r.log.Info().Str("run_id", r.report.RunID).Str("csv", r.cfg.Output.CSV).
		Str("db", out.DB.Path()).Str("table", sink.Table()).Msg("table persisted")
	r.note(MsgLoadedDB)

	runner := query.NewRunner(out.DB.DB(), r.deps.Out)
	r.reach(StageConnectionOpened)

	results, qerr := runner.Run(ctx, r.cfg.Queries)
	r.report.Results = results
	r.reach(StageQueriesRun)
	if qerr != nil {
		r.log.Warn().Str("run_id", r.report.RunID).Err(qerr).Msg("some queries failed")
	}

	r.note(MsgComplete)
	r.reach(StageClosed)
	r.log.Info().Str("run_id", r.report.RunID).Dur("elapsed", time.Since(started)).Msg("run complete")

	if qerr != nil {
		return &StageError{Stage: StageQueriesRun, Err: qerr}
	}
	return nil
}

func (r *run) extractor() (Extractor, func(), error) {
	if r.deps.Extractor != nil {
		return r.deps.Extractor, func() {}, nil
	}
	timeout, err := r.cfg.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	ex := extract.New(extract.NewHTTPClient(timeout), r.cfg.Source.URL, r.cfg.ExtractOptions())
	r.log.Debug().Str("run_id", r.report.RunID).Str("url", ex.URL()).Dur("timeout", timeout).Msg("http extractor ready")
	return ex, func() { ex.Close() }, nil
}
