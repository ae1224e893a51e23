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

	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
)

var songCmd = &cobra.Command{
	Use:   "song",
	Short: "song commands",
}

func init() {
	rootCmd.AddCommand(songCmd)
	songCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	songCmd.AddCommand(createSongCmd())
	songCmd.AddCommand(getSongCmd())
	songCmd.AddCommand(listSongsCmd())
	songCmd.AddCommand(deleteSongCmd())
}

func checkMissingFlags(cmd *cobra.Command, required []string) bool {
	missing := false
	for _, name := range required {
		if !cmd.Flags().Changed(name) {
			color.Red("missing flag: --%s", name)
			missing = true
		}
	}
	return missing
}

func createSongCmd() *cobra.Command {
	var title string
	var key string
	var tempo int
	var timeSignature string
	var capo int
	var tags string

	var required = []string{"title"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a song",
		Example: "lyra song create -t <title> -k <key> --tempo 120",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			song, err := service.CreateSong(context.Background(), uuid.Nil, model.ChartMeta{
				Title:         title,
				Key:           key,
				Tempo:         tempo,
				TimeSignature: timeSignature,
				Capo:          capo,
				Tags:          tags,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("song created with id: %s", song.ID)
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "song title (required)")
	command.Flags().StringVarP(&key, "key", "k", "", "musical key")
	command.Flags().IntVar(&tempo, "tempo", 0, "tempo in bpm")
	command.Flags().StringVar(&timeSignature, "time", "", "time signature")
	command.Flags().IntVar(&capo, "capo", 0, "capo position")
	command.Flags().StringVar(&tags, "tags", "", "comma-separated tags")

	command.Flags().SortFlags = false

	return command
}

func getSongCmd() *cobra.Command {
	var songID string

	var required = []string{"song-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a song head",
		Example: "lyra song get -s <song-id>",
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

			song, err := service.GetSong(context.Background(), id)
			if err != nil {
				logrus.Error(err)
				return
			}

			content, err := service.Reconstruct(context.Background(), id, song.CurrentVersion)
			if err != nil && song.CurrentVersion > 0 {
				logrus.Error(err)
				return
			}

			color.Cyan("%s (v%d)", song.Title, song.CurrentVersion)
			if song.Key != "" {
				fmt.Printf("key: %s  tempo: %d  time: %s  capo: %d\n", song.Key, song.Tempo, song.TimeSignature, song.Capo)
			}
			fmt.Println(content)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().SortFlags = false

	return command
}

func listSongsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "list",
		Short:   "list songs",
		Example: "lyra song list",
		Run: func(cmd *cobra.Command, args []string) {
			service, _, err := newService()
			if err != nil {
				logrus.Error(err)
				return
			}

			songs, err := service.ListSongs(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Key", "Version", "Updated"})
			for _, song := range songs {
				table.Append([]string{
					song.ID,
					song.Title,
					song.Key,
					fmt.Sprintf("%d", song.CurrentVersion),
					song.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			table.Render()
		},
	}

	return command
}

func deleteSongCmd() *cobra.Command {
	var songID string

	var required = []string{"song-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a song and its history",
		Example: "lyra song delete -s <song-id>",
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

			if err := service.DeleteSong(context.Background(), id); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("song %s deleted", songID)
		},
	}

	command.Flags().StringVarP(&songID, "song-id", "s", "", "song id (required)")
	command.Flags().SortFlags = false

	return command
}
