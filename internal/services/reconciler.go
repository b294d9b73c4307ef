package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/repo"
)

// Reconciler reports claims that were recorded without a payout and clears
// expired login challenges and idempotency keys. It never modifies claims.
type Reconciler struct {
	DB *gorm.DB
	// Sample is how many of the oldest unpaid claims are logged per run.
	Sample int
	Now    func() time.Time
}

// Run performs one reconciliation pass.
func (r *Reconciler) Run(ctx context.Context) error {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now().UTC()
	}
	logger := log.Ctx(ctx)

	unpaid, err := repo.CountUnpaidClaims(ctx, r.DB)
	if err != nil {
		return err
	}
	rewardUnpaid.Set(float64(unpaid))

	if unpaid > 0 && r.Sample > 0 {
		claims, err := repo.ListUnpaidClaims(ctx, r.DB, r.Sample)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(claims))
		for _, c := range claims {
			keys = append(keys, c.Key().String())
		}
		logger.Warn().Int64("unpaid", unpaid).Strs("oldest", keys).Msg("reward claims awaiting manual payout")
	}

	challenges, err := repo.PurgeExpiredChallenges(ctx, r.DB, now)
	if err != nil {
		return err
	}
	keys, err := repo.PurgeExpiredIdempotency(ctx, r.DB, now)
	if err != nil {
		return err
	}
	if challenges > 0 || keys > 0 {
		logger.Debug().Int64("challenges", challenges).Int64("idempotency_keys", keys).Msg("purged expired rows")
	}
	return nil
}

// StartReconciler schedules r every interval and starts the scheduler.
// A non-positive interval disables it and returns a nil scheduler.
func StartReconciler(interval time.Duration, r *Reconciler) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := r.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("reconcile run failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	sched.Start()
	return sched, nil
}
