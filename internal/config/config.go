package config

import (
	"fmt"
	"os"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv     string // dev/prod
	APIDomain string // APIドメイン（cookieやCORSなどで使う）
	FEURL     string // フロントURL（CORSなどで使う）

	PaymentAPIURL   string        // 決済プロバイダのエンドポイント
	PaymentCurrency string        // デフォルト通貨（ISO 4217）
	CheckoutTimeout time.Duration // 注文確定の外部呼び出しタイムアウト
}

// Loadは環境変数から設定を読む（DB接続はinfra/dbが直接読む）
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:     getenv("GO_ENV", "dev"),
		APIDomain: os.Getenv("API_DOMAIN"),
		FEURL:     os.Getenv("FE_URL"),

		PaymentAPIURL:   os.Getenv("PAYMENT_API_URL"),
		PaymentCurrency: getenv("PAYMENT_CURRENCY", "USD"),
		CheckoutTimeout: 10 * time.Second,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("CHECKOUT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHECKOUT_TIMEOUT must be a duration: %w", err)
		}
		cfg.CheckoutTimeout = d
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
