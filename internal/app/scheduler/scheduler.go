// Package scheduler は毎日の定期収集と起動時の収集を実行します。
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"finance_collector/internal/feature/companies/domain/entity"
)

// DailySpec は定期収集の実行時刻（毎日 01:00）です。実行中に変更はできません。
const DailySpec = "0 1 * * *"

// Runner は収集処理を実行します。
type Runner interface {
	CollectAll(ctx context.Context, trigger entity.Trigger) (entity.RunSummary, error)
}

// Scheduler は cron による定期実行と起動時の1回の実行を管理します。
type Scheduler struct {
	cron         *cron.Cron
	runner       Runner
	runOnStartup bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New は新しい Scheduler を作成します。loc が nil の場合はローカル時刻で動作します。
func New(runner Runner, runOnStartup bool, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := slogLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			// 前回の定期実行が終わっていなければ今回はスキップする
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner:       runner,
		runOnStartup: runOnStartup,
	}
}

// Start は定期実行を開始し、設定されていれば起動時の収集をバックグラウンドで開始します。
// ctx がキャンセルされると実行中の収集も中断されます。
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(DailySpec, func() {
		slog.Info("running scheduled data collection")
		s.run(entity.TriggerSchedule)
	}); err != nil {
		s.cancel()
		return err
	}
	s.cron.Start()

	if s.runOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			slog.Info("performing initial data collection on startup")
			s.run(entity.TriggerStartup)
		}()
	}
	return nil
}

func (s *Scheduler) run(trigger entity.Trigger) {
	if _, err := s.runner.CollectAll(s.ctx, trigger); err != nil {
		slog.Error("data collection failed", "trigger", trigger, "error", err)
	}
}

// Next は次回の定期実行時刻を返します。Start 前はゼロ値です。
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop は新しい実行を止め、実行中の収集の完了を待ちます。
// ctx が先に終了した場合は実行中の収集をキャンセルし、ctx のエラーを返します。
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// slogLogger adapts cron.Logger to log/slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
