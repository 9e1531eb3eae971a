package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

func TestParseAvailabilityRuleDefault(t *testing.T) {
	rule, err := ParseAvailabilityRule("mon=12-18,tue=12-18,wed=12-18,thu=12-18,fri=15-18", 30)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAvailabilityRule(), rule)

	_, saturday := rule.WindowFor(5)
	_, sunday := rule.WindowFor(6)
	assert.False(t, saturday, "saturday should be closed")
	assert.False(t, sunday, "sunday should be closed")
}

func TestParseAvailabilityRuleRejectsInvalid(t *testing.T) {
	cases := map[string]struct {
		windows string
		minutes int
	}{
		"start after end":         {"mon=18-12", 30},
		"unknown weekday":         {"funday=12-18", 30},
		"malformed span":          {"mon=12", 30},
		"duplicate weekday":       {"mon=12-18,mon=13-18", 30},
		"granularity not fitting": {"mon=12-13", 45},
		"zero granularity":        {"mon=12-18", 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAvailabilityRule(tc.windows, tc.minutes)
			assert.Error(t, err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "demo-booking-service", cfg.App.Name)
	assert.Equal(t, "stub", cfg.Notify.Provider)
	assert.Equal(t, domain.DeliveryChannel("contact_form"), cfg.Notify.LastResortChannel)
	assert.Equal(t, []domain.DeliveryChannel{
		"template_3wepyib", "template_1", "template_contact", "template_consultium",
	}, cfg.Notify.Channels)
	assert.NoError(t, cfg.Availability.Rule.Validate())
}

func TestLoadRejectsBadChannelConfig(t *testing.T) {
	t.Setenv("NOTIFY_CHANNELS", "contact_form,template_1")
	_, err := Load()
	assert.Error(t, err, "last-resort channel inside the priority list must be rejected")
}

func TestLoadRejectsProviderWithoutCredentials(t *testing.T) {
	t.Setenv("NOTIFY_PROVIDER", "emailjs")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NOTIFY_PROVIDER", "sendgrid")
	_, err = Load()
	assert.Error(t, err)
}
