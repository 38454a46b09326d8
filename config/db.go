package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"litfund-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "litfund_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures the editable content sections exist and, when the
// environment names one, bootstraps the first admin allow-list entry so a
// fresh deployment is reachable.
func SeedDatabase() {
	sections := []models.SiteContent{
		{Section: "hero", Content: datatypes.JSON(`{"headline":"Funding for plaintiffs, when it matters","subheadline":"Non-recourse pre-settlement funding with no upfront costs"}`)},
		{Section: "about", Content: datatypes.JSON(`{"body":"We advance funds against pending litigation so plaintiffs can cover living costs while their case proceeds."}`)},
		{Section: "footer", Content: datatypes.JSON(`{"disclaimer":"Funding is not a loan. Repayment is contingent on case outcome."}`)},
	}
	for _, s := range sections {
		var n int64
		DB.Model(&models.SiteContent{}).Where("section = ?", s.Section).Count(&n)
		if n == 0 {
			if err := DB.Create(&s).Error; err != nil {
				logrus.WithError(err).WithField("section", s.Section).Warn("failed to seed content section")
			}
		}
	}

	seedUserID := strings.TrimSpace(os.Getenv("ADMIN_SEED_USER_ID"))
	seedEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_SEED_EMAIL")))
	if seedUserID != "" && seedEmail != "" {
		var n int64
		DB.Model(&models.AdminUser{}).Count(&n)
		if n == 0 {
			admin := models.AdminUser{UserID: seedUserID, Email: seedEmail}
			if err := DB.Create(&admin).Error; err != nil {
				logrus.WithError(err).Warn("failed to seed admin allow-list entry")
			} else {
				logrus.WithField("email", seedEmail).Info("seeded first admin allow-list entry")
			}
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.AdminUser{},
		&models.PasswordReset{},
		&models.FormSubmission{},
		&models.Testimonial{},
		&models.BlogPost{},
		&models.SiteContent{},
		&models.PageView{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
