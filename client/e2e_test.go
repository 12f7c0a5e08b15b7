//go:build e2e

package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bodrovis/tfcx/client"
	"github.com/bodrovis/tfcx/internal/utils"
)

const e2eTimeout = 30 * time.Second

// liveHost runs against the public service unless TFCX_E2E_HOSTNAME says otherwise.
func liveHost(t *testing.T) string {
	t.Helper()
	_ = utils.LoadDotEnv()
	if !utils.EnvEnabled("TFCX_E2E") {
		t.Skip("TFCX_E2E not enabled, skipping live test")
	}
	return utils.GetEnv("TFCX_E2E_HOSTNAME", "app.terraform.io")
}

func TestE2E_PublicIPRanges(t *testing.T) {
	host := liveHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), e2eTimeout)
	defer cancel()

	c := mustBuild(t, client.NewBuilder())

	got, err := client.Get[ipRanges](ctx, c, "https://"+host+"/api/meta/ip-ranges", nil, nil)
	if err != nil {
		t.Fatalf("ip-ranges: %v", err)
	}
	if len(got.API) == 0 {
		t.Fatalf("expected at least one API range: %#v", got)
	}
}

func TestE2E_AccountDetailsUnauthorized(t *testing.T) {
	host := liveHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), e2eTimeout)
	defer cancel()

	c := mustBuild(t, client.NewBuilder())

	err := c.Get(ctx, "https://"+host+"/api/v2/account/details", nil, nil, nil)
	re := asResponseError(t, err)

	if re.CanonicalReason != "Unauthorized" || re.Status != "401" {
		t.Fatalf("got %#v", re)
	}
	assert.JSONEq(t, unauthorizedBody, string(re.Body))
	assert.Equal(t, "Failure: [Error(401): unauthorized.]", re.Failure().String())
}
