package commands

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"sessionkit/internal/domain"
	"sessionkit/internal/jobqueue"
)

// benchCmd floods the job queue with no-op jobs spread over a set of device
// addresses and checks that each device saw its jobs in order.
func benchCmd() *cobra.Command {
	var (
		devices int
		jobs    int
		perSec  float64
		work    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive the per-device job queue and report its counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if devices < 1 || jobs < 1 {
				return fmt.Errorf("--devices and --jobs must be positive")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			limit := rate.Inf
			if perSec > 0 {
				limit = rate.Limit(perSec)
			}
			limiter := rate.NewLimiter(limit, max(1, int(perSec)))

			addrs := make([]string, devices)
			for i := range addrs {
				addrs[i] = domain.NewAddress("bench", uint32(i+1)).String()
			}

			var (
				mu      sync.Mutex
				last    = make(map[string]int, devices)
				misses  int
				pending = make([]*jobqueue.Completion, 0, jobs)
			)
			start := time.Now()
			for n := 0; n < jobs; n++ {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				key := addrs[n%devices]
				seq := n / devices
				pending = append(pending, appCtx.Queue.Submit(ctx, key, func(ctx context.Context) (any, error) {
					if work > 0 {
						time.Sleep(work)
					}
					mu.Lock()
					if prev, ok := last[key]; ok && prev != seq-1 {
						misses++
					}
					last[key] = seq
					mu.Unlock()
					return seq, nil
				}))
			}
			for _, c := range pending {
				if _, err := c.Wait(ctx); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			st := appCtx.Queue.Stats()
			logger.Debug().Int("devices", devices).Int("jobs", jobs).Dur("elapsed", elapsed).Msg("bench finished")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "jobs=%d devices=%d elapsed=%s rate=%s/s\n",
				jobs, devices, elapsed.Round(time.Millisecond),
				strconv.FormatFloat(float64(jobs)/elapsed.Seconds(), 'f', 0, 64))
			fmt.Fprintf(out, "submitted=%d completed=%d failed=%d compactions=%d limit=%d out-of-order=%d\n",
				st.Submitted, st.Completed, st.Failed, st.Compactions, settings.Queue.CompactionLimit, misses)
			if misses > 0 {
				return fmt.Errorf("%d jobs ran out of order", misses)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&devices, "devices", 4, "number of device addresses")
	cmd.Flags().IntVar(&jobs, "jobs", 10000, "total jobs to submit")
	cmd.Flags().Float64Var(&perSec, "rate", 0, "submissions per second (0 = unlimited)")
	cmd.Flags().DurationVar(&work, "work", 0, "simulated time per job")
	return cmd
}
