package domain

import "context"

//go:generate mockgen -source=rule_repository.go -destination=rule_repository_mock.go -package=domain

// RuleRepository persists the user's custom notification rules as one
// ordered sequence, read in full at every reconciliation pass and
// rewritten in full after every mutation.
type RuleRepository interface {
	ListRules(ctx context.Context) ([]NotificationRule, error)
	SaveRules(ctx context.Context, rules []NotificationRule) error
}
