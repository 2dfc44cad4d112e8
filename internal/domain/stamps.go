package domain

import "time"

// StampsFor computes the lifecycle timestamps that accompany entering
// toState. First-write-wins: a stamp already captured on the record is
// never overwritten unless the rule is marked Always. Callers invoke this
// only for transitions the guard has accepted.
func StampsFor(desc ResourceDescriptor, toState Status, record Record, now time.Time) map[string]time.Time {
	rule, ok := desc.Stamps[toState]
	if !ok {
		return nil
	}

	if !rule.Always {
		if _, set := record.Stamps[rule.Field]; set {
			return nil
		}
	}

	return map[string]time.Time{rule.Field: now}
}
