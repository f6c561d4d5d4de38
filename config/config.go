package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	CORSOrigins string

	AppName   string
	AppURL    string
	AppSecret string

	GoogleClientID string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	SMTPUser        string
	SMTPAppPassword string
	MailFrom        string
	MailFromName    string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		ServerPort:  os.Getenv("SERVER_PORT"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		CORSOrigins: os.Getenv("CORS_ORIGINS"),

		AppName:   os.Getenv("APP_NAME"),
		AppURL:    os.Getenv("APP_URL"),
		AppSecret: os.Getenv("APP_SECRET"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPAppPassword: os.Getenv("SMTP_APP_PASSWORD"),
		MailFrom:        os.Getenv("MAIL_FROM"),
		MailFromName:    os.Getenv("MAIL_FROM_NAME"),
	}
}
