// POST /api/auth/local              # Вход (публичный)
// POST /api/auth/local/register     # Регистрация (публичный)
// GET  /api/health                  # Проверка связи (публичный)
// GET  /api/pozos                   # Справочник скважин (auth)
// POST /api/pozos                   # Добавить скважину (auth)
// POST /api/lectura-pozos           # Принять показание, 409 на повтор за месяц (auth)
// GET  /api/lectura-pozos           # Список показаний (auth)
// POST /api/upload                  # Загрузка фото, multipart (auth)
// GET  /api/upload/files            # Файлы записи (auth)
// GET  /uploads/*                   # Раздача загруженных файлов

package api

import (
	"net/http"

	healthAPI "lecturapozos/internal/app/server/api/http/health"
	lecturaAPI "lecturapozos/internal/app/server/api/http/lectura"
	"lecturapozos/internal/app/server/api/http/middleware"
	"lecturapozos/internal/app/server/api/http/middleware/auth"
	"lecturapozos/internal/app/server/api/http/middleware/logger"
	pozoAPI "lecturapozos/internal/app/server/api/http/pozo"
	uploadAPI "lecturapozos/internal/app/server/api/http/upload"
	userAPI "lecturapozos/internal/app/server/api/http/user"
	"lecturapozos/internal/app/server/config"
	"lecturapozos/internal/domain/lectura"
	"lecturapozos/internal/domain/pozo"
	"lecturapozos/internal/domain/session"
	"lecturapozos/internal/domain/upload"
	"lecturapozos/internal/domain/user"
	"lecturapozos/internal/infrastructure/storage/disk"
	"lecturapozos/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
)

const uploadsPath = "/uploads"

type Handlers struct {
	Health  *healthAPI.Handler
	User    *userAPI.Handler
	Pozo    *pozoAPI.Handler
	Lectura *lecturaAPI.Handler
	Upload  *uploadAPI.Handler
}

// New создает *chi.Mux с операциями API и раздачей загруженных файлов
func New(cfg *config.Config, storage *postgres.Storage, blobs *disk.Store, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)

	humaConfig := huma.DefaultConfig("Lectura Pozos API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, storage, blobs, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Pozo.SetupRoutes(API)
	h.Lectura.SetupRoutes(API)
	h.Upload.SetupRoutes(API)

	mux.Handle(uploadsPath+"/*", http.StripPrefix(uploadsPath+"/", http.FileServer(http.Dir(blobs.Dir()))))

	return mux
}

func handlers(cfg *config.Config, storage *postgres.Storage, blobs *disk.Store, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewPasswordValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	pozoRepo := postgres.NewPozoRepository(storage, log)
	pozoService := pozo.NewService(pozoRepo, log)
	middlewares.Add(loggerMW.Middleware(), authMW.Middleware())
	pozoHandler := pozoAPI.NewHandler(pozoService, log, middlewares.GetAllAndClear())

	lecturaRepo := postgres.NewLecturaRepository(storage, log)
	lecturaService := lectura.NewService(lecturaRepo, log)
	middlewares.Add(loggerMW.Middleware(), authMW.Middleware())
	lecturaHandler := lecturaAPI.NewHandler(lecturaService, log, middlewares.GetAllAndClear())

	uploadRepo := postgres.NewUploadRepository(storage, log)
	uploadService := upload.NewService(uploadRepo, blobs, lecturaService, uploadsPath, log)
	middlewares.Add(loggerMW.Middleware(), authMW.Middleware())
	uploadHandler := uploadAPI.NewHandler(uploadService, cfg.Upload.MaxBytes, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		User:    userHandler,
		Pozo:    pozoHandler,
		Lectura: lecturaHandler,
		Upload:  uploadHandler,
	}
}
