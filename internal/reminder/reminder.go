// Package reminder pings chat members who still have war attacks left
// shortly before the war ends.
package reminder

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"clanwatch/internal/storage"
	"clanwatch/internal/structures"
	"clanwatch/internal/upstream"
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	// Cooldown is the minimum gap between two reminders for one user in one group.
	Cooldown      = time.Hour
	defaultWindow = 4 * time.Hour
)

// Reasons a tick ended without considering any group.
const (
	SkipDisabled      = "disabled"
	SkipUpstream      = "upstream_error"
	SkipNotInWar      = "not_in_war"
	SkipBadEndTime    = "unparsable_end_time"
	SkipWarOver       = "war_over"
	SkipOutsideWindow = "outside_window"
	SkipNoneMissing   = "no_missing_attacks"
	SkipStore         = "store_error"
)

// TickResult summarizes one tick. Skipped is empty when groups were processed.
type TickResult struct {
	Skipped        string
	GroupsNotified int
	GroupsFailed   int
	UsersNotified  int
}

type Reminder struct {
	enabled  bool
	clanTag  string
	window   time.Duration
	client   upstream.ClientInterface
	store    storage.MembershipStoreInterface
	notifier providers.NotifierInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewReminder(
	conf *structures.Config,
	client upstream.ClientInterface,
	store storage.MembershipStoreInterface,
	notifier providers.NotifierInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Reminder {
	window := time.Duration(conf.Reminder.WindowHours) * time.Hour
	if window <= 0 {
		window = defaultWindow
	}
	return &Reminder{
		enabled:  conf.Reminder.Enabled,
		clanTag:  conf.Upstream.ClanTag,
		window:   window,
		client:   client,
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Tick runs one reminder pass at now. Upstream and store failures are logged
// and end the pass; the next tick retries.
func (r *Reminder) Tick(ctx context.Context, now time.Time) TickResult {
	if !r.enabled {
		return TickResult{Skipped: SkipDisabled}
	}
	start := time.Now()
	defer func() { r.metrics.ObserveReminderTick(time.Since(start)) }()

	war, err := r.client.GetWar(ctx, r.clanTag)
	if err != nil {
		r.logger.Warnf(providers.TypeReminder, "Skipping reminder tick, war unavailable: %s", err)
		return TickResult{Skipped: SkipUpstream}
	}
	if !war.InProgress() {
		return TickResult{Skipped: SkipNotInWar}
	}

	endTime, err := models.ParseUpstreamTime(war.EndTime)
	if err != nil {
		r.logger.Warnf(providers.TypeReminder, "Skipping reminder tick: %s", err)
		return TickResult{Skipped: SkipBadEndTime}
	}
	remaining := endTime.Sub(now)
	if remaining <= 0 {
		return TickResult{Skipped: SkipWarOver}
	}
	if remaining > r.window {
		return TickResult{Skipped: SkipOutsideWindow}
	}

	missing := missingAttackTags(war)
	if len(missing) == 0 {
		return TickResult{Skipped: SkipNoneMissing}
	}

	groups, err := r.store.GetGroupIDs(ctx)
	if err != nil {
		r.logger.Errorf(providers.TypeReminder, "Failed to list groups: %s", err)
		return TickResult{Skipped: SkipStore}
	}

	var result TickResult
	for _, groupID := range groups {
		sent, err := r.remindGroup(ctx, groupID, missing, now, remaining)
		if err != nil {
			r.logger.Warnf(providers.TypeReminder, "Reminder for group %d failed: %s", groupID, err)
			result.GroupsFailed++
			continue
		}
		if sent > 0 {
			result.GroupsNotified++
			result.UsersNotified += sent
		}
	}

	r.metrics.AddRemindersSent(result.UsersNotified)
	r.logger.Infof(providers.TypeReminder, "Reminder tick done: %d users in %d groups, %d groups failed",
		result.UsersNotified, result.GroupsNotified, result.GroupsFailed)
	return result
}

// missingAttackTags returns normalized tags of clan members with no attack
// used. Malformed tags are dropped.
func missingAttackTags(war *models.War) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range war.Clan.Members {
		if m.AttacksUsed() > 0 || m.Tag == "" {
			continue
		}
		tag, err := upstream.NormalizeTag(m.Tag)
		if err != nil {
			continue
		}
		out[tag] = struct{}{}
	}
	return out
}

// remindGroup sends one message for every due user in the group and returns
// how many users it named. Cooldowns are written only after the send succeeds.
func (r *Reminder) remindGroup(ctx context.Context, groupID int64, missing map[string]struct{}, now time.Time, remaining time.Duration) (int, error) {
	bindings, err := r.store.GetBindingsForTags(ctx, groupID, missing)
	if err != nil {
		return 0, fmt.Errorf("load bindings: %w", err)
	}
	if len(bindings) == 0 {
		return 0, nil
	}

	userIDs := make([]int64, 0, len(bindings))
	for _, b := range bindings {
		userIDs = append(userIDs, b.UserID)
	}
	cooldowns, err := r.store.GetCooldowns(ctx, groupID, userIDs)
	if err != nil {
		return 0, fmt.Errorf("load cooldowns: %w", err)
	}

	due := make([]models.Binding, 0, len(bindings))
	for _, b := range bindings {
		if last, ok := cooldowns[b.UserID]; ok && now.Before(last.Add(Cooldown)) {
			continue
		}
		due = append(due, b)
	}
	if len(due) == 0 {
		return 0, nil
	}

	if err := r.notifier.SendMessage(ctx, groupID, FormatReminder(due, remaining)); err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}

	notified := make([]int64, 0, len(due))
	for _, b := range due {
		notified = append(notified, b.UserID)
	}
	if err := r.store.SetCooldowns(ctx, groupID, notified, now); err != nil {
		// The message is out; a duplicate next tick is acceptable.
		r.logger.Errorf(providers.TypeReminder, "Failed to store cooldowns for group %d: %s", groupID, err)
	}
	return len(due), nil
}

// FormatReminder renders the HTML message naming every due user.
func FormatReminder(due []models.Binding, remaining time.Duration) string {
	mentions := make([]string, 0, len(due))
	for _, b := range due {
		name := b.DisplayName
		if name == "" {
			name = b.Tag
		}
		mentions = append(mentions, fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, b.UserID, html.EscapeString(name)))
	}
	return fmt.Sprintf("War reminder: %s you still have attacks remaining. Time left: %s.",
		strings.Join(mentions, ", "), formatRemaining(remaining))
}

func formatRemaining(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}
