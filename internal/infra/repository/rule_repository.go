package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peregrinehq/habitloop-scheduler/internal/domain"
)

const rulesKey = "notify:rules"

// ruleRecord is the stored JSON shape of a rule. The field names match
// the legacy client export format so stored data round-trips across
// versions; changing them breaks existing deployments.
type ruleRecord struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Time          string `json:"time"`
	StartDates    string `json:"startDates"`
	Days          []int  `json:"days"`
	ColorHue      int    `json:"colorHue"`
	RepeatType    string `json:"repeatType"`
	RepeatWeeks   int    `json:"repeatFrequencyWeeks,omitempty"`
	IterationDays int    `json:"iterationFrequencyDays,omitempty"`
}

type ruleRepository struct {
	client *redis.Client
}

func NewRuleRepository(client *redis.Client) domain.RuleRepository {
	return &ruleRepository{
		client: client,
	}
}

func (r *ruleRepository) ListRules(ctx context.Context) ([]domain.NotificationRule, error) {
	data, err := r.client.Get(ctx, rulesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var records []ruleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, ErrInvalidRuleData
	}

	rules := make([]domain.NotificationRule, 0, len(records))
	for _, record := range records {
		rules = append(rules, record.toRule())
	}
	return rules, nil
}

func (r *ruleRepository) SaveRules(ctx context.Context, rules []domain.NotificationRule) error {
	records := make([]ruleRecord, 0, len(rules))
	for _, rule := range rules {
		records = append(records, toRuleRecord(rule))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrInvalidRuleData
	}

	return r.client.Set(ctx, rulesKey, data, 0).Err()
}

func toRuleRecord(rule domain.NotificationRule) ruleRecord {
	days := make([]int, 0, len(rule.Days))
	for _, d := range rule.Days {
		days = append(days, int(d))
	}

	fireTime := time.Date(
		rule.Anchor.Year(), rule.Anchor.Month(), rule.Anchor.Day(),
		rule.Hour, rule.Minute, 0, 0, time.UTC,
	)

	return ruleRecord{
		ID:            rule.ID,
		Title:         rule.Title,
		Time:          fireTime.Format(time.RFC3339),
		StartDates:    rule.Anchor.UTC().Format(time.RFC3339),
		Days:          days,
		ColorHue:      rule.ColorHue,
		RepeatType:    rule.Mode.String(),
		RepeatWeeks:   rule.RepeatWeeks,
		IterationDays: rule.IterationDays,
	}
}

func (rec ruleRecord) toRule() domain.NotificationRule {
	days := make([]time.Weekday, 0, len(rec.Days))
	for _, d := range rec.Days {
		days = append(days, time.Weekday(d))
	}

	rule := domain.NotificationRule{
		ID:            rec.ID,
		Title:         rec.Title,
		ColorHue:      rec.ColorHue,
		Mode:          domain.RepeatMode(rec.RepeatType),
		Days:          days,
		RepeatWeeks:   rec.RepeatWeeks,
		IterationDays: rec.IterationDays,
	}

	if t, err := time.Parse(time.RFC3339, rec.Time); err == nil {
		rule.Hour = t.Hour()
		rule.Minute = t.Minute()
	}
	if anchor, err := time.Parse(time.RFC3339, rec.StartDates); err == nil {
		rule.Anchor = anchor
	}

	// Legacy records may predate the recurrence fields entirely.
	return rule.Normalized()
}
