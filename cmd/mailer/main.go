package main

import (
	"log"

	"github.com/spockNinja/web-template/config"
	"github.com/spockNinja/web-template/infra/queue"
	"github.com/spockNinja/web-template/internal/api/rest/handlers"
	"github.com/spockNinja/web-template/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log.Println("Mail Service starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	mailService := services.NewMailService(
		cfg.SMTPUser,
		cfg.SMTPAppPassword,
		cfg.MailFrom,
		cfg.MailFromName,
		cfg.AppName,
	)

	handler := handlers.NewMailHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Println("Mail Service listening for events...")
	consumer.Listen()
}
