package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/FebaRodrigues/final-fit-sub000/api"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/mailtemplates"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/smtp"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/twilio"
	"github.com/FebaRodrigues/final-fit-sub000/objectstorage"
	"github.com/FebaRodrigues/final-fit-sub000/payments"
	"github.com/FebaRodrigues/final-fit-sub000/stripe"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "gym-backend", "The name of the MongoDB database")
	flag.String("web-url", "http://localhost:5173", "The URL of the web application")
	flag.String("server-url", "http://localhost:8080", "The public URL of this API server")
	flag.Bool("dev", false, "run in dev mode (OTP code echo enabled)")
	flag.String("stripe-api-secret", "", "Stripe API secret key")
	flag.String("stripe-webhook-secret", "", "Stripe webhook signing secret")
	flag.String("stripe-currency", "usd", "Stripe checkout currency")
	flag.String("smtp-server", "", "SMTP server")
	flag.Int("smtp-port", 587, "SMTP port")
	flag.String("smtp-username", "", "SMTP username")
	flag.String("smtp-password", "", "SMTP password")
	flag.String("email-from-address", "", "Email service from address")
	flag.String("email-from-name", "Gym Backend", "Email service from name")
	flag.String("twilio-account-sid", "", "Twilio account SID")
	flag.String("twilio-auth-token", "", "Twilio auth token")
	flag.String("twilio-from-number", "", "Twilio from number")
	flag.String("s3-region", "", "S3 region for the object storage")
	flag.String("s3-bucket", "", "S3 bucket for the object storage")
	flag.String("s3-access-key", "", "S3 access key")
	flag.String("s3-secret-key", "", "S3 secret key")
	flag.String("s3-endpoint", "", "S3 endpoint override, for S3 compatible stores")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("GYM")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal().Msg("secret is required")
	}
	devMode := viper.GetBool("dev")
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	webURL := viper.GetString("web-url")
	serverURL := viper.GetString("server-url")
	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the MongoDB database")
	}
	defer database.Close()
	// load the email templates from the embedded assets
	if err := mailtemplates.Load(); err != nil {
		log.Fatal().Err(err).Msg("could not load email templates")
	}
	// create the email service if SMTP is configured
	var mailService notifications.NotificationService
	if smtpServer := viper.GetString("smtp-server"); smtpServer != "" {
		mailService = new(smtp.Email)
		if err := mailService.New(&smtp.Config{
			FromName:     viper.GetString("email-from-name"),
			FromAddress:  viper.GetString("email-from-address"),
			SMTPServer:   smtpServer,
			SMTPPort:     viper.GetInt("smtp-port"),
			SMTPUsername: viper.GetString("smtp-username"),
			SMTPPassword: viper.GetString("smtp-password"),
		}); err != nil {
			log.Fatal().Err(err).Msg("could not create email service")
		}
		log.Info().Str("server", smtpServer).Msg("email service created")
	}
	// create the SMS service if Twilio is configured
	var smsService notifications.NotificationService
	if twilioSid := viper.GetString("twilio-account-sid"); twilioSid != "" {
		smsService = new(twilio.SMS)
		if err := smsService.New(&twilio.Config{
			AccountSid: twilioSid,
			AuthToken:  viper.GetString("twilio-auth-token"),
			FromNumber: viper.GetString("twilio-from-number"),
		}); err != nil {
			log.Fatal().Err(err).Msg("could not create SMS service")
		}
		log.Info().Msg("SMS service created")
	}
	// create the payment provider if Stripe is configured
	var provider payments.Provider
	if stripeKey := viper.GetString("stripe-api-secret"); stripeKey != "" {
		stripeConfig := &stripe.Config{
			APIKey:        stripeKey,
			WebhookSecret: viper.GetString("stripe-webhook-secret"),
			Currency:      viper.GetString("stripe-currency"),
			SuccessURL:    webURL + "/payments/success",
			CancelURL:     webURL + "/payments/cancel",
		}
		if err := stripeConfig.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid stripe configuration")
		}
		provider = stripe.NewClient(stripeConfig)
		log.Info().Msg("stripe client created")
	} else {
		log.Warn().Msg("stripe is not configured, checkout endpoints will be unavailable")
	}
	// create the payment service
	paymentService, err := payments.NewService(&payments.ServiceConfig{
		DB:       database,
		Provider: provider,
		Mailer:   mailService,
		DevMode:  devMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not create payment service")
	}
	// create the object storage client if S3 is configured
	var storage *objectstorage.Client
	if bucket := viper.GetString("s3-bucket"); bucket != "" {
		storage, err = objectstorage.New(&objectstorage.Config{
			Region:    viper.GetString("s3-region"),
			Bucket:    bucket,
			AccessKey: viper.GetString("s3-access-key"),
			SecretKey: viper.GetString("s3-secret-key"),
			Endpoint:  viper.GetString("s3-endpoint"),
			ServerURL: serverURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not create object storage client")
		}
		log.Info().Str("bucket", bucket).Msg("object storage client created")
	}
	// create the local API server
	api.New(&api.Config{
		Host:          host,
		Port:          port,
		Secret:        secret,
		DB:            database,
		Payments:      paymentService,
		MailService:   mailService,
		SMSService:    smsService,
		WebAppURL:     webURL,
		ServerURL:     serverURL,
		ObjectStorage: storage,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Info().Str("host", host).Int("port", port).Msg("server started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
