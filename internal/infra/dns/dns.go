package dns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53domains"
	rdTypes "github.com/aws/aws-sdk-go-v2/service/route53domains/types"
)

type domainsAPI interface {
	CheckDomainAvailability(ctx context.Context, params *route53domains.CheckDomainAvailabilityInput,
		optFns ...func(*route53domains.Options)) (*route53domains.CheckDomainAvailabilityOutput, error)
}

// Registrar answers whether a domain can still be registered.
type Registrar struct {
	domainClient domainsAPI
}

// NewRegistrar builds a Route 53 Domains client. The Domains API only
// exists in us-east-1, so region overrides the shared config.
func NewRegistrar(awsConfig aws.Config, region string) *Registrar {
	domainClientCfg := awsConfig
	domainClientCfg.Region = region
	return &Registrar{
		domainClient: route53domains.NewFromConfig(domainClientCfg),
	}
}

func (d *Registrar) CheckAvailability(ctx context.Context, domain string) (bool, error) {
	out, err := d.domainClient.CheckDomainAvailability(ctx, &route53domains.CheckDomainAvailabilityInput{
		DomainName: aws.String(domain),
	})
	if err != nil {
		return false, fmt.Errorf("err checking domain availability, %w", err)
	}
	return out.Availability == rdTypes.DomainAvailabilityAvailable, nil
}
