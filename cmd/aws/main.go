package main

import (
	"accounts/internal/config"
	"accounts/internal/core/domain/notifier"
	"accounts/internal/implementations/email"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// Verifies the configured sender address with Amazon SES or sends a test email
// through the same sender the services use.
func main() {
	verify := flag.Bool("verify", false, "request verification of AWS_EMAIL_SENDER")
	to := flag.String("to", "", "recipient of a test email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	options := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.AwsRegion)}
	if cfg.AwsAccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *verify:
		VerifySender(awsCfg, cfg.AwsEmailSender)
	case *to != "":
		SendTestEmail(awsCfg, cfg.AwsEmailSender, *to)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func VerifySender(awsCfg aws.Config, sender string) {
	svc := ses.NewFromConfig(awsCfg)
	_, err := svc.VerifyEmailIdentity(context.Background(), &ses.VerifyEmailIdentityInput{
		EmailAddress: aws.String(sender),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Verification email sent to %s\n", sender)
}

func SendTestEmail(awsCfg aws.Config, sender string, to string) {
	err := email.NewEmailSender(awsCfg, sender).Send(context.Background(), notifier.Message{
		Subject:  "Test email",
		HTMLBody: "<p>Email delivery works.</p>",
		To:       to,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Test email sent to %s\n", to)
}
