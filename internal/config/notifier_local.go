//go:build !gcloud

package config

import "errors"

func (c *NotifierConfig) Validate() error {
	if c.GatewayURL == "" {
		return errors.New("NOTIFY_GATEWAY_URL environment variable is required")
	}
	return nil
}
