package module

import (
	"crowdgit/internal/adapters/sqs"
	"crowdgit/internal/platform/config"
	"crowdgit/internal/services/delivery/domain"
)

// Options holds configuration settings for the delivery module
type Options struct {
	MaxPayload   int
	BatchRecords bool
	SQS          sqs.Config
}

// FromConfig reads CORE_INGEST_* delivery settings and SQS_* credentials
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_INGEST_")
	qc := cfg.Prefix("SQS_")
	return Options{
		MaxPayload:   ic.MayInt("MAX_PAYLOAD", domain.DefaultMaxPayload),
		BatchRecords: ic.MayBool("BATCH_RECORDS", false),
		SQS: sqs.Config{
			EndpointURL:     qc.MayString("ENDPOINT_URL", ""),
			QueueURL:        qc.MayString("QUEUE_URL", ""),
			Region:          qc.MayString("REGION", "us-east-1"),
			AccessKeyID:     qc.MayString("ACCESS_KEY_ID", ""),
			SecretAccessKey: qc.MayString("SECRET_ACCESS_KEY", ""),
		},
	}
}
