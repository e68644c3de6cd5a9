package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blogapi/config"
	"blogapi/database"
	"blogapi/database/model"
	"blogapi/logger"
	"blogapi/util/crypto"
	"blogapi/util/random"
	"blogapi/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	settings, err := config.LoadSettings(config.GetSettingsPath())
	if err != nil {
		log.Fatal(err)
	}

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer(settings)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(settings)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func resetAdminPassword(email string) {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}

	password := random.Seq(12)
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		fmt.Println("reset admin password failed:", err)
		return
	}

	db := database.GetDB()
	result := db.Model(&model.User{}).Where("email = ?", email).Update("password", hash)
	if result.Error != nil {
		fmt.Println("reset admin password failed:", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		fmt.Println("no account found for", email)
		return
	}
	fmt.Printf("password for %s reset to %s\n", email, password)
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   config.GetName(),
		Short: "Blog publishing API with a user-verification workflow",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var email string
	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset an account password to a random value",
		Run: func(cmd *cobra.Command, args []string) {
			resetAdminPassword(email)
		},
	}
	resetCmd.Flags().StringVar(&email, "email", "admin@example.com", "account email")
	rootCmd.AddCommand(resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
