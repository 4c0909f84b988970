package main

import (
	"time"

	"app/internal/cart"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/payment"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くても起動できる（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("api")
	if cfg.GoEnv == "prod" {
		logger.SetLevel(log.INFO)
	} else {
		logger.SetLevel(log.DEBUG)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Profile{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.CartSnapshot{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	cartStore := infraRepo.NewCartSnapshotGormStore(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//カート通知はサーバー側ではログに残すだけ
	notifier := cart.NewLogNotifier(logger)

	//決済プロバイダ
	paymentClient := payment.NewHTTPClient(cfg.PaymentAPIURL, cfg.CheckoutTimeout)

	//Usecase生成
	authUC := auth.NewAuthUsecase(userRepo, rtRepo, hasher, verifier, issuer, idGen, clock, refreshTTL)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartStore, notifier, productRepo, logger)
	checkoutUC := usecase.NewCheckoutUsecase(
		orderRepo, orderItemRepo, cartStore, notifier,
		paymentClient, logger, cfg.CheckoutTimeout, cfg.PaymentCurrency,
	)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, userRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo)
	adminAuditUC := usecase.NewAdminAuditUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, refreshTTL),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Order:        handler.NewOrderHandler(orderUC),
		Profile:      handler.NewProfileHandler(profileUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminUser:    handler.NewAdminUserHandler(adminUserUC),
		AdminAudit:   handler.NewAdminAuditHandler(adminAuditUC),
	}

	//Server起動
	e := server.New(cfg, userRepo, handlers)
	if err := server.Start(e, cfg.Port); err != nil {
		logger.Fatal(err)
	}
}
