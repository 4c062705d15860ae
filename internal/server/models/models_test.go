package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredActions_ValueScan(t *testing.T) {
	in := RequiredActions{{Platform: "YouTube", Action: "subscribe", ConnectionID: 7}}
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"platform":"YouTube","action":"subscribe","connectionId":7}]`, v)

	var out RequiredActions
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, in, out)
}

func TestRequiredActions_NilValueIsEmptyArray(t *testing.T) {
	var in RequiredActions
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestCompletedActions_Scan(t *testing.T) {
	var c CompletedActions
	require.NoError(t, c.Scan(`["1-a","2-b"]`))
	assert.Equal(t, CompletedActions{"1-a", "2-b"}, c)

	require.NoError(t, c.Scan([]byte("null")))
	assert.Equal(t, CompletedActions{}, c)

	assert.Error(t, c.Scan(42))
	assert.Error(t, c.Scan([]byte("{not json")))
}

func TestLockedLink_HasFiles(t *testing.T) {
	assert.True(t, (&LockedLink{TargetURL: FilesTarget}).HasFiles())
	assert.False(t, (&LockedLink{TargetURL: "https://example.com"}).HasFiles())
}

func TestUser_Creator(t *testing.T) {
	dn := "Alice"
	u := &User{ID: 1, Username: "alice", Email: "a@x", PasswordHash: "h", DisplayName: &dn, BannerColor: DefaultBannerColor, AccentColor: DefaultAccentColor}
	c := u.Creator()
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, &dn, c.DisplayName)
	assert.Equal(t, DefaultBannerColor, c.BannerColor)
}
