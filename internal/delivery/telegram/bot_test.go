package telegram

import (
	"fmt"
	"testing"

	"albion-gold-bot/internal/navigation"
	"albion-gold-bot/internal/types"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text string
		name string
		args string
		ok   bool
	}{
		{"/gold", "gold", "", true},
		{"/GOLD", "gold", "", true},
		{"/gold@AlbionGoldBot", "gold", "", true},
		{"/live -1001234", "live", "-1001234", true},
		{"/live@AlbionGoldBot   -100", "live", "-100", true},
		{"gold", "", "", false},
		{"/", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range cases {
		name, args, ok := parseCommand(tc.text)
		if name != tc.name || args != tc.args || ok != tc.ok {
			t.Errorf("parseCommand(%q) = (%q, %q, %v), expected (%q, %q, %v)",
				tc.text, name, args, ok, tc.name, tc.args, tc.ok)
		}
	}
}

func TestParseNavigationAction(t *testing.T) {
	cases := map[string]navigation.Action{
		"history:prev":  navigation.ActionPrev,
		"history:today": navigation.ActionToday,
		"history:next":  navigation.ActionNext,
	}
	for data, want := range cases {
		got, ok := parseNavigationAction(data)
		if !ok || got != want {
			t.Errorf("parseNavigationAction(%q) = (%v, %v)", data, got, ok)
		}
	}

	if _, ok := parseNavigationAction("payment:confirm"); ok {
		t.Error("unknown callback data must not map to an action")
	}
}

func TestUserFacingError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{types.ErrNetwork, "⚠️ Gagal terhubung ke server API"},
		{fmt.Errorf("wrap: %w", types.ErrNetwork), "⚠️ Gagal terhubung ke server API"},
		{types.ErrDataUnavailable, "⚠️ Data tidak tersedia"},
		{types.ErrNoData, "⚠️ Tidak ada data yang tersedia selama 2 minggu terakhir"},
		{types.ErrInvalidPrice, "⚠️ Format data tidak valid"},
		{fmt.Errorf("sesuatu"), "🔥 Terjadi kesalahan sistem"},
	}
	for _, tc := range cases {
		if got := userFacingError(tc.err); got != tc.want {
			t.Errorf("userFacingError(%v) = %q, expected %q", tc.err, got, tc.want)
		}
	}
}
