package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance_collector/internal/feature/companies/domain/entity"
)

// BatchProcessor is the part of Pipeline the orchestrator depends on.
type BatchProcessor interface {
	Process(ctx context.Context, batch []entity.CompanyRecord, fallbackCountry string) (ProcessResult, error)
}

// GroupJob はマーケットグループの収集器と、そのグループの既定の国コードの組です。
type GroupJob struct {
	Collector       Collector
	FallbackCountry string // 空文字列は指定なし
}

// Orchestrator は各マーケットグループの収集と保存を順番に実行します。
type Orchestrator struct {
	jobs     []GroupJob
	pipeline BatchProcessor
	status   RunStatusStore
	now      func() time.Time
}

// NewOrchestrator は新しい Orchestrator を作成します。jobs は指定された順に直列で実行されます。
// status が nil の場合、実行結果は保存されません。
func NewOrchestrator(pipeline BatchProcessor, status RunStatusStore, jobs ...GroupJob) *Orchestrator {
	return &Orchestrator{
		jobs:     jobs,
		pipeline: pipeline,
		status:   status,
		now:      time.Now,
	}
}

// DefaultJobs は USA → Argentina → Europe の標準的な実行順を返します。
func DefaultJobs(usa, argentina, europe Collector) []GroupJob {
	return []GroupJob{
		{Collector: usa, FallbackCountry: "US"},
		{Collector: argentina, FallbackCountry: argentinaCountryCode},
		{Collector: europe},
	}
}

// CollectAll は全グループの収集を直列で実行します。
// あるグループの保存に失敗してもログを出力して次のグループへ進みます。
// 失敗したグループがあった場合、それらのエラーをまとめて返します。
func (o *Orchestrator) CollectAll(ctx context.Context, trigger entity.Trigger) (entity.RunSummary, error) {
	slog.Info("starting data collection process", "trigger", trigger)

	summary := entity.RunSummary{
		Trigger:   trigger,
		StartedAt: o.now(),
		Groups:    make([]entity.GroupResult, 0, len(o.jobs)),
	}

	var errs []error
	for _, job := range o.jobs {
		gr, err := o.runGroup(ctx, job)
		if err != nil {
			// 1つのグループの失敗で他のグループを止めない
			slog.Error("failed to process market group", "group", gr.Group, "error", err)
			gr.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", gr.Group, err))
		} else {
			slog.Info("processed market group", "group", gr.Group, "collected", gr.Collected, "staged", gr.Staged, "skipped", gr.Skipped)
		}
		summary.Groups = append(summary.Groups, gr)
	}
	summary.FinishedAt = o.now()

	if o.status != nil {
		// 保存はベストエフォート
		if err := o.status.SaveLastRun(ctx, summary); err != nil {
			slog.Warn("failed to save run status", "error", err)
		}
	}

	if len(errs) > 0 {
		return summary, errors.Join(errs...)
	}
	slog.Info("data collection process completed successfully", "elapsed", summary.FinishedAt.Sub(summary.StartedAt))
	return summary, nil
}

func (o *Orchestrator) runGroup(ctx context.Context, job GroupJob) (gr entity.GroupResult, err error) {
	gr.Group = job.Collector.Group()

	defer func() {
		// 収集器がパニックしても次のグループへ進む
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	records := job.Collector.Collect(ctx)
	gr.Collected = len(records)

	res, err := o.pipeline.Process(ctx, records, job.FallbackCountry)
	if err != nil {
		return gr, err
	}
	gr.Staged, gr.Skipped = res.Staged, res.Skipped
	return gr, nil
}

// LastRun は直近の実行結果を返します。
func (o *Orchestrator) LastRun(ctx context.Context) (entity.RunSummary, error) {
	if o.status == nil {
		return entity.RunSummary{}, ErrRunStatusNotFound
	}
	return o.status.LastRun(ctx)
}
