package client

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/nais/msgraph.go/msauth"
	"golang.org/x/oauth2"

	"github.com/intunerator/intunerator/pkg/config"
)

var (
	scopes = []string{msauth.DefaultMSGraphScope}
)

func NewClientCredentialsTokenSource(ctx context.Context, cfg *config.AzureConfig) (oauth2.TokenSource, error) {
	m := msauth.NewManager()
	ts, err := m.ClientCredentialsGrant(ctx, cfg.Tenant.Id, cfg.Auth.ClientId, cfg.Auth.ClientSecret, scopes)
	if err != nil {
		return nil, fmt.Errorf("performing client credentials grant: %w", err)
	}

	return ts, nil
}

type AzidentityTokenSource struct {
	cred *azidentity.ClientSecretCredential
	ctx  context.Context
	opts policy.TokenRequestOptions
}

func (in *AzidentityTokenSource) Token() (*oauth2.Token, error) {
	tok, err := in.cred.GetToken(in.ctx, in.opts)
	if err != nil {
		return nil, fmt.Errorf("fetching azure token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		Expiry:      tok.ExpiresOn,
	}, nil
}

func NewAzidentityTokenSource(ctx context.Context, cfg *config.AzureConfig) (oauth2.TokenSource, error) {
	cred, err := azidentity.NewClientSecretCredential(cfg.Tenant.Id, cfg.Auth.ClientId, cfg.Auth.ClientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure client secret credential: %w", err)
	}

	ts := &AzidentityTokenSource{
		cred: cred,
		ctx:  ctx,
		opts: policy.TokenRequestOptions{
			Scopes: scopes,
		},
	}

	return oauth2.ReuseTokenSource(nil, ts), nil
}
