package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	rcron "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ftl/gsm-inbox/sms"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan the memory periodically and print new messages",
		Long: "Watch scans the memory right away and then on the given cron schedule. Every message is printed " +
			"once, together with the ID of the scan that found it.",
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().String("schedule", "@every 1m", "Cron schedule of the scans, e.g. \"*/5 * * * *\" ($GSM_INBOX_SCHEDULE)")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	logger := s.logger.Named("watch")
	w := newWatcher(s.assembler(), cmd.OutOrStdout(), logger)

	schedulerLogger := cronLogger{logger: logger.Sugar()}
	scheduler := rcron.New(
		rcron.WithLogger(schedulerLogger),
		rcron.WithChain(rcron.SkipIfStillRunning(schedulerLogger)),
	)
	_, err = scheduler.AddFunc(s.config.Schedule, func() {
		if err := w.Scan(ctx); err != nil && ctx.Err() == nil {
			logger.Error("scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid schedule %q", s.config.Schedule)
	}

	if err := w.Scan(ctx); err != nil && ctx.Err() == nil {
		logger.Error("scan failed", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("watching", zap.Stringer("memory", s.config.Memory), zap.String("schedule", s.config.Schedule))
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

type watchEvent struct {
	Scan string  `json:"scan"`
	SMS  sms.SMS `json:"sms"`
}

// watcher prints every message only once across all scans.
type watcher struct {
	assembler *sms.Assembler
	encoder   *json.Encoder
	logger    *zap.Logger

	mu   sync.Mutex
	seen map[string]bool
}

func newWatcher(assembler *sms.Assembler, out io.Writer, logger *zap.Logger) *watcher {
	return &watcher{
		assembler: assembler,
		encoder:   json.NewEncoder(out),
		logger:    logger,
		seen:      make(map[string]bool),
	}
}

// Scan the memory once and print the messages that were not printed before.
func (w *watcher) Scan(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	scanID := ulid.Make().String()
	logger := w.logger.With(zap.String("scan", scanID))

	result, err := w.assembler.WithLogger(logger).Scan(ctx)
	if err != nil {
		return err
	}
	logScanResult(logger, result)

	for _, message := range result.Messages {
		key := messageKey(message)
		if w.seen[key] {
			continue
		}
		if err := w.encoder.Encode(watchEvent{Scan: scanID, SMS: message}); err != nil {
			return err
		}
		w.seen[key] = true
	}
	return nil
}

func messageKey(message sms.SMS) string {
	return fmt.Sprintf("%s%v|%s|%d|%s", message.Memory.Type, message.Memory.Slots, message.Sender, message.DateTime.Unix(), message.Text)
}
