package main

import (
	"strings"
	"time"

	"app/internal/cache"
	"app/internal/config"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/metrics"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

// セッションcookie用のトークン発行
type sessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newSessionIssuer(cfg config.Config) *sessionIssuer {
	return &sessionIssuer{
		secret: []byte(cfg.SessionSecret),
		ttl:    24 * time.Hour,
	}
}

func (i *sessionIssuer) Issue(customerID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub": customerID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは任意
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		panic(err)
	}

	//カタログキャッシュ（REDIS_ADDRが空なら使わない）
	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.NewRedisCache(rdb)
	}

	//Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartLineRepo := infraRepo.NewCartLineGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	checkoutMetrics := metrics.NewCheckoutMetrics()

	//Usecase生成
	identityUC := usecase.NewIdentityUsecase(customerRepo)
	catalogUC := usecase.NewCatalogUsecase(productRepo, productCache)
	cartUC := usecase.NewCartUsecase(cartLineRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txm, orderRepo, idGen, checkoutMetrics)

	//Handler生成
	issuer := newSessionIssuer(cfg)
	customerH := handler.NewCustomerHandler(identityUC, issuer)
	productH := handler.NewProductHandler(catalogUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(checkoutUC)

	//Server起動
	e := server.New(cfg, customerH, productH, cartH, orderH)

	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	e.Logger.Fatal(e.Start(addr))
}
