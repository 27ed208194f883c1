package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/config"
	"github.com/cmlabs-hris/attendance-go/internal/domain/clock"
	appHTTP "github.com/cmlabs-hris/attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-go/internal/repository/postgresql"
	adminService "github.com/cmlabs-hris/attendance-go/internal/service/admin"
	punchService "github.com/cmlabs-hris/attendance-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-go/internal/service/report"
	summaryService "github.com/cmlabs-hris/attendance-go/internal/service/summary"
	userService "github.com/cmlabs-hris/attendance-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)

	realClock := clock.RealClock{}
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()
	publisher := sse.NewAttendancePublisher(hub)

	aggregator := summaryService.New(attendanceRepo, summaryRepo, realClock)
	punchSvc := punchService.New(attendanceRepo, summaryRepo, userRepo, realClock, aggregator, publisher)
	adminEditor := adminService.New(attendanceRepo, userRepo, aggregator, realClock)
	reportSvc := reportService.New(attendanceRepo, summaryRepo, userRepo)
	userSvc := userService.New(userRepo)

	authHandler := appHTTP.NewAuthHandler(userSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(punchSvc, reportSvc)
	adminHandler := appHTTP.NewAdminHandler(adminEditor, reportSvc, userSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, jwtService)

	router := appHTTP.NewRouter(jwtService, authHandler, attendanceHandler, adminHandler, eventsHandler)

	scheduler := cron.NewScheduler()
	reconcileJobs := cron.NewAttendanceJobs(attendanceRepo, aggregator, cfg.App.ReconcileLookback)
	reconcileJobs.RegisterJobs(scheduler, cfg.App.ReconcileInterval)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running at http://localhost%s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped gracefully")
}
