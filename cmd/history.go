package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/history"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "version history commands",
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	historyCmd.AddCommand(saveVersionCmd())
	historyCmd.AddCommand(listVersionsCmd())
	historyCmd.AddCommand(showVersionCmd())
	historyCmd.AddCommand(diffVersionsCmd())
	historyCmd.AddCommand(restoreVersionCmd())
	historyCmd.AddCommand(pruneCmd())
}

func saveVersionCmd() *cobra.Command {
	var songID string
	var file string
	var description string
	var versionType string
	var expectedHead int64

	var required = []string{"song-id", "file"}

	command := &cobra.Command{
		Use:     "save",
		Short:   "save a new version from a chart file",
		Example: "lyra history save -s <song-id> -f chart.cho -m \"new bridge\"",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			content, err := os.ReadFile(file)
			if err != nil {
				logrus.Error(err)
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			song, err := service.GetSong(context.Background(), id)
			if err != nil {
				logrus.Error(err)
				return
			}

			head := expectedHead
			if !cmd.Flags().Changed("expected-head") {
				head = song.CurrentVersion
			}

			version, err := service.AppendVersion(context.Background(), history.AppendRequest{
				SongID:       id,
				Content:      string(content),
				Meta:         song.ChartMeta,
				Author:       currentAuthor(),
				Type:         versionType,
				Description:  description,
				ExpectedHead: head,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			kind := "snapshot"
			if version.IsDelta {
				kind = fmt.Sprintf("delta of v%d", *version.BaseVersionNumber)
			}
			logrus.Infof("saved v%d (%s, %s, %.1f%% saved)",
				version.VersionNumber, kind, version.Compression, history.CompressionRatio(version))
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().StringVarP(&file, "file", "f", "", "chart file to save (required)")
	command.Flags().StringVarP(&description, "message", "m", "", "change description")
	command.Flags().StringVar(&versionType, "type", model.VersionTypeManual, "version type (manual, auto_save, import)")
	command.Flags().Int64Var(&expectedHead, "expected-head", -1, "fail unless the head still has this version number")

	command.Flags().SortFlags = false

	return command
}

func listVersionsCmd() *cobra.Command {
	var songID string

	var required = []string{"song-id"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list versions, newest first",
		Example: "lyra history list -s <song-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			versions, err := service.ListVersions(context.Background(), id)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Created", "Author", "Type", "Kind", "Size", "Saved", "Description"})
			for _, v := range versions {
				kind := "snapshot"
				if v.IsDelta {
					kind = fmt.Sprintf("delta(v%d)", *v.BaseVersionNumber)
				}
				table.Append([]string{
					fmt.Sprintf("%d", v.VersionNumber),
					v.CreatedAt.Format("2006-01-02 15:04"),
					v.AuthorName,
					v.VersionType,
					kind,
					fmt.Sprintf("%dB", v.StorageSize),
					fmt.Sprintf("%.1f%%", history.CompressionRatio(v)),
					v.ChangeDescription,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().SortFlags = false

	return command
}

func showVersionCmd() *cobra.Command {
	var songID string
	var number int64

	var required = []string{"song-id", "number"}

	command := &cobra.Command{
		Use:     "show",
		Short:   "reconstruct and print one version",
		Example: "lyra history show -s <song-id> -n 3",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			content, err := service.Reconstruct(context.Background(), id, number)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Println(content)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().Int64VarP(&number, "number", "n", 0, "version number (required)")
	command.Flags().SortFlags = false

	return command
}

func diffVersionsCmd() *cobra.Command {
	var songID string
	var from int64
	var to int64

	var required = []string{"song-id", "from", "to"}

	command := &cobra.Command{
		Use:     "diff",
		Short:   "show a unified diff between two versions",
		Example: "lyra history diff -s <song-id> -a 2 -b 5",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			out, err := service.DiffVersions(context.Background(), id, from, to)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Print(out)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().Int64VarP(&from, "from", "a", 0, "old version number (required)")
	command.Flags().Int64VarP(&to, "to", "b", 0, "new version number (required)")
	command.Flags().SortFlags = false

	return command
}

func restoreVersionCmd() *cobra.Command {
	var songID string
	var number int64

	var required = []string{"song-id", "number"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a past version as a new head version",
		Example: "lyra history restore -s <song-id> -n 3",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			version, err := service.Restore(context.Background(), id, number, currentAuthor())
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("restored v%d as v%d", number, version.VersionNumber)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().Int64VarP(&number, "number", "n", 0, "version number (required)")
	command.Flags().SortFlags = false

	return command
}

func pruneCmd() *cobra.Command {
	var songID string

	var required = []string{"song-id"}

	command := &cobra.Command{
		Use:     "prune",
		Short:   "prune versions outside the retention window",
		Example: "lyra history prune -s <song-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			id, err := uuid.Parse(songID)
			if err != nil {
				logrus.Error("invalid song id, expected a valid uuid")
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			pruned, err := service.Prune(context.Background(), id)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("pruned %d versions", pruned)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().SortFlags = false

	return command
}
