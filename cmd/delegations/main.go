package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/config"
	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	httpapi "github.com/GotYourSixConsulting/delegations/internal/http"
	"github.com/GotYourSixConsulting/delegations/internal/logger"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
	"github.com/GotYourSixConsulting/delegations/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "delegations")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	communitiesRepo := repository.NewMemoryCommunitiesRepo()
	residentsRepo := repository.NewMemoryResidentsRepo()
	medTechsRepo := repository.NewMemoryMedTechsRepo()
	delegationsRepo := repository.NewMemoryDelegationsRepo()
	tasksRepo := repository.NewMemoryTasksRepo(repository.DefaultTaskCatalog())

	ctx := context.Background()

	// Bootstrap community so the service is usable without an admin call.
	if cfg.Community.Name != "" {
		id, err := communitiesRepo.CreateCommunity(ctx, &domain.Community{
			Name:    cfg.Community.Name,
			RNName:  cfg.Community.RNName,
			RNPhone: cfg.Community.RNPhone,
			RNEmail: cfg.Community.RNEmail,
		})
		if err != nil {
			log.Warn("failed to bootstrap community", zap.Error(err))
		} else {
			log.Info("bootstrapped community",
				zap.String("community_id", id),
				zap.String("name", cfg.Community.Name))
		}
	}

	if cfg.SeedDemo {
		seedDemo(ctx, log, communitiesRepo, residentsRepo, medTechsRepo)
	}

	clock := dateutil.SystemClock{}

	delegationSvc := service.NewDelegationService(delegationsRepo, residentsRepo, medTechsRepo, communitiesRepo, tasksRepo, clock, log)
	assessmentSvc := service.NewAssessmentService(residentsRepo, clock, log)
	medTechSvc := service.NewMedTechService(medTechsRepo, log)
	reportSvc := service.NewReportService(delegationsRepo, residentsRepo, medTechsRepo, clock, log)
	packetSvc := service.NewPacketService(delegationsRepo, residentsRepo, medTechsRepo, communitiesRepo, tasksRepo, clock, log)

	router := httpapi.NewRouter(log)
	router.RegisterDelegationRoutes(httpapi.NewDelegationHandler(delegationSvc, reportSvc, packetSvc, tasksRepo, cfg.PageSize, log))
	router.RegisterResidentRoutes(httpapi.NewResidentHandler(residentsRepo, assessmentSvc, packetSvc, cfg.PageSize, log))
	router.RegisterMedTechRoutes(httpapi.NewMedTechHandler(medTechsRepo, medTechSvc, packetSvc, cfg.PageSize, log))
	router.RegisterCommunityRoutes(httpapi.NewCommunityHandler(communitiesRepo, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// seedDemo fills the memory stores with a small data set for local UI work.
func seedDemo(
	ctx context.Context,
	log *zap.Logger,
	communities *repository.MemoryCommunitiesRepo,
	residents *repository.MemoryResidentsRepo,
	medTechs *repository.MemoryMedTechsRepo,
) {
	communityID, err := communities.CreateCommunity(ctx, &domain.Community{
		Name:    "Willow Creek Assisted Living",
		RNName:  "Pat Morgan",
		RNPhone: "555-0100",
	})
	if err != nil {
		log.Warn("demo seed: community", zap.Error(err))
		return
	}
	_, _ = residents.CreateResident(ctx, &domain.Resident{
		CommunityID: communityID,
		Name:        "Dorothy Hale",
		Unit:        "Memory Care 12",
		Diagnosis:   "Type 2 diabetes, early-stage dementia",
		MedRegimen:  "Lantus 20u qhs; sliding scale per orders",
	})
	_, _ = medTechs.CreateMedTech(ctx, &domain.MedTech{
		CommunityID: communityID,
		Name:        "Jamie Reyes",
		Credential:  "Certified Med Tech",
		Profile: domain.DelegationProfile{
			RNRelationshipMonths:   18,
			InsulinMonthsCommunity: 12,
			InsulinMonthsCareer:    36,
			Willingness:            "Expressed willingness to continue insulin administration",
		},
	})
	log.Info("demo data seeded", zap.String("community_id", communityID))
}
