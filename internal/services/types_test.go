package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "seconds_ago", at: now.Add(-30 * time.Second), want: "just now"},
		{name: "minutes_ago", at: now.Add(-5 * time.Minute), want: "5 min ago"},
		{name: "one_hour_ago", at: now.Add(-90 * time.Minute), want: "1 hour ago"},
		{name: "hours_ago", at: now.Add(-5 * time.Hour), want: "5 hours ago"},
		{name: "yesterday", at: now.Add(-30 * time.Hour), want: "Yesterday"},
		{name: "days_ago", at: now.Add(-75 * time.Hour), want: "3 days ago"},
		{name: "zero_time", at: time.Time{}, want: "just now"},
		{name: "future_clamped", at: now.Add(time.Hour), want: "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.at, now))
		})
	}
}

func TestEmailAccount_LastSync(t *testing.T) {
	never := &EmailAccount{}
	assert.Equal(t, "never", never.LastSync())
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	threads := NewMemoryThreadRepository()
	messages := NewMemoryMessageRepository()
	accounts := NewMemoryAccountRepository()

	require.NoError(t, SeedDemoData(ctx, threads, messages, accounts))

	allThreads, err := threads.List(ctx)
	require.NoError(t, err)
	require.Len(t, allThreads, 4)
	assert.Equal(t, "Email Marketing Strategy", allThreads[0].Title)

	welcome, err := messages.ListByThread(ctx, allThreads[0].ID)
	require.NoError(t, err)
	require.Len(t, welcome, 3)
	assert.Equal(t, SenderAI, welcome[0].Sender)

	allAccounts, err := accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, allAccounts, 2)
	assert.Equal(t, ProviderGmail, allAccounts[0].Provider)
	assert.Equal(t, AccountStatusError, allAccounts[1].Status)
}
