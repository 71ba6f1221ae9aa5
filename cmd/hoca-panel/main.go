// hoca-panel is the instructor's command line tool: it shuffles item
// prices into a staged workbook, queues the staged workbook for
// publishing, and reads the attempt log.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balenascatcher/bilge-simulasyon/internal/attemptlog"
	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/dataset"
	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/internal/queue"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
)

var (
	cfg *config.Config

	shuffleSeed  int64
	shuffleInput string
	publishNote  string
	assignment   string
)

var rootCmd = &cobra.Command{
	Use:          "hoca-panel",
	Short:        "Instructor tooling for the customs declaration portal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Randomize item prices and stage a new workbook",
	Long: `Reads the live workbook (or --input), multiplies every item price by
a random factor between 0.9 and 1.1, and uploads the result to the
staging key. The computed tax columns are left untouched so students
must recalculate them. Run "publish" afterwards to make it live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := storage.New(cfg)
		if err != nil {
			return err
		}

		var data []byte
		if shuffleInput != "" {
			data, err = os.ReadFile(shuffleInput)
		} else {
			data, err = download(ctx, st, cfg.Dataset.LiveKey)
		}
		if err != nil {
			return err
		}

		seed := shuffleSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		shuffled, err := dataset.Shuffle(data, rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}

		if err := st.Upload(ctx, cfg.Dataset.StagingKey, bytes.NewReader(shuffled)); err != nil {
			return err
		}

		fmt.Printf("Staged shuffled workbook at %s (seed %d)\n", cfg.Dataset.StagingKey, seed)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Queue the staged workbook for promotion to the live dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		redisClient, err := queue.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()

		job := model.PublishJob{
			StagingKey:  cfg.Dataset.StagingKey,
			RequestedBy: "hoca-panel",
			RequestedAt: time.Now(),
			Note:        publishNote,
		}

		producer := queue.NewProducer(redisClient, cfg)
		if err := producer.EnqueuePublishJob(cmd.Context(), job); err != nil {
			return err
		}

		fmt.Printf("Publish job queued for %s\n", job.StagingKey)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List student attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		attempts, err := listAttempts(cmd.Context())
		if err != nil {
			return err
		}

		// Newest first.
		for i := len(attempts) - 1; i >= 0; i-- {
			a := attempts[i]
			status := "HATALI"
			if a.Success {
				status = "BAŞARILI"
			}
			fmt.Printf("%s  %-12s %-24s odev=%-8s %s (%d hata)\n",
				a.Timestamp.Format("2006-01-02 15:04:05"),
				a.StudentNo, a.StudentName, a.Assignment, status, len(a.Errors))
			for j, e := range a.Errors {
				if j == 3 {
					fmt.Printf("    ... ve %d hata daha\n", len(a.Errors)-j)
					break
				}
				fmt.Printf("    - %s\n", e)
			}
		}
		fmt.Printf("Toplam %d deneme\n", len(attempts))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Class-wide success rate and mistake distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		attempts, err := listAttempts(cmd.Context())
		if err != nil {
			return err
		}

		stats := attemptlog.Stats(attempts, assignment)
		fmt.Printf("Toplam Deneme:   %d\n", stats.Total)
		fmt.Printf("Başarılı Tescil: %d\n", stats.Succeeded)
		fmt.Printf("Başarı Oranı:    %%%.1f\n", stats.SuccessRate)

		counts := attemptlog.ErrorCounts(attempts)
		if len(counts) > 0 {
			fmt.Println("\nEn Çok Hata Yapılan Alanlar:")
			for _, c := range counts {
				fmt.Printf("  %4d  %s\n", c.Count, c.Field)
			}
		}
		return nil
	},
}

func listAttempts(ctx context.Context) ([]model.Attempt, error) {
	var store attemptlog.Store
	if cfg.AttemptLog.Store == "mysql" {
		database, err := attemptlog.NewMySQLConnection(cfg)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		store = attemptlog.NewMySQLStore(database)
	} else {
		store = attemptlog.NewFileStore(cfg.AttemptLog.Path)
	}
	return store.List(ctx, assignment)
}

func download(ctx context.Context, st storage.Storage, key string) ([]byte, error) {
	reader, err := st.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func main() {
	shuffleCmd.Flags().Int64Var(&shuffleSeed, "seed", 0, "random seed (0 = time-based)")
	shuffleCmd.Flags().StringVar(&shuffleInput, "input", "", "shuffle a local .xlsx instead of the live workbook")
	publishCmd.Flags().StringVar(&publishNote, "note", "", "note recorded on the publish job")
	logsCmd.Flags().StringVar(&assignment, "assignment", "", "filter by assignment")
	reportCmd.Flags().StringVar(&assignment, "assignment", "", "filter by assignment")

	rootCmd.AddCommand(shuffleCmd, publishCmd, logsCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
