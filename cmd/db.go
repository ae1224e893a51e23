package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/config"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				panic(err)
			}
			if err := st.Migrate(); err != nil {
				panic(err)
			}
		},
	}

	return command
}
