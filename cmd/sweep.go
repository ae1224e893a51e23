package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/job"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/jobs"
)

func init() {
	rootCmd.AddCommand(sweepCmd())
}

func sweepCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "sweep",
		Short:   "run the retention sweeper until interrupted",
		Example: "LYRA_RETENTION_MAX_COUNT=50 lyra sweep",
		Run: func(cmd *cobra.Command, args []string) {
			service, cfg, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			sweeper := job.NewRetentionSweeper(service, cfg.SweepSchedule)
			executor := jobs.NewTaskExecutor([]jobs.CronJob{sweeper})
			executor.Run()
			defer executor.Stop()

			logrus.Infof("retention sweeper running on %q", sweeper.Schedule())

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
		},
	}

	return command
}
