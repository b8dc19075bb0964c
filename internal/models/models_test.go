package models

import "testing"

func TestIsObjectID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: false},
		{name: "short", value: "64b7f0c2a1", want: false},
		{name: "non_hex", value: "64b7f0c2a1e4d3f2b1c0a9zz", want: false},
		{name: "too_long", value: "64b7f0c2a1e4d3f2b1c0a9e8f", want: false},
		{name: "lowercase", value: "64b7f0c2a1e4d3f2b1c0a9e8", want: true},
		{name: "uppercase", value: "64B7F0C2A1E4D3F2B1C0A9E8", want: true},
		{name: "trimmed", value: "  64b7f0c2a1e4d3f2b1c0a9e8 ", want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsObjectID(test.value); got != test.want {
				t.Fatalf("IsObjectID(%q) = %t, want %t", test.value, got, test.want)
			}
		})
	}
}

func TestTeamUnmarshalLegacyID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "object_id", body: `{"_id":"64b7f0c2a1e4d3f2b1c0a9e8","name":"Lions"}`, want: "64b7f0c2a1e4d3f2b1c0a9e8"},
		{name: "legacy_string", body: `{"id":"abc","name":"Lions"}`, want: "abc"},
		{name: "legacy_number", body: `{"id":12,"name":"Lions"}`, want: "12"},
		{name: "prefers_object_id", body: `{"_id":"x1","id":"x2"}`, want: "x1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var team Team
			if err := json.Unmarshal([]byte(test.body), &team); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if team.ID != test.want {
				t.Fatalf("ID = %q, want %q", team.ID, test.want)
			}
		})
	}
}

func TestTeamRefAcceptsBareID(t *testing.T) {
	var player Player
	if err := json.Unmarshal([]byte(`{"name":"Ali","team":"64b7f0c2a1e4d3f2b1c0a9e8"}`), &player); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if player.Team.ID != "64b7f0c2a1e4d3f2b1c0a9e8" || player.Team.Name != "" {
		t.Fatalf("team = %+v", player.Team)
	}
	if player.Team.Label() != "64b7f0c2a1e4d3f2b1c0a9e8" {
		t.Fatalf("label = %q", player.Team.Label())
	}
}

func TestFixtureStatusShortCode(t *testing.T) {
	tests := []struct {
		status FixtureStatus
		want   string
	}{
		{StatusNotStarted, "NS"},
		{StatusInProgress, "IP"},
		{StatusFinished, "FT"},
		{StatusPostponed, "PST"},
		{StatusCancelled, "CANC"},
		{FixtureStatus("Abandoned"), "NS"},
		{FixtureStatus(""), "NS"},
	}

	for _, test := range tests {
		if got := test.status.ShortCode(); got != test.want {
			t.Fatalf("ShortCode(%q) = %q, want %q", test.status, got, test.want)
		}
	}
}

func TestAvailabilityRequiresReason(t *testing.T) {
	if AvailabilityAvailable.RequiresReason() {
		t.Fatalf("available should not require a reason")
	}
	for _, status := range []AvailabilityStatus{AvailabilityWillNotPlay, AvailabilityUncertain} {
		if !status.RequiresReason() {
			t.Fatalf("%s should require a reason", status)
		}
	}
}

func TestScoreline(t *testing.T) {
	two, one := 2, 1
	if got := (Goals{Home: &two, Away: &one}).Scoreline(); got != "2 - 1" {
		t.Fatalf("Scoreline = %q", got)
	}
	if got := (Goals{Home: &two}).Scoreline(); got != "-" {
		t.Fatalf("Scoreline = %q, want -", got)
	}
}

func TestMatchEventSummary(t *testing.T) {
	tests := []struct {
		name  string
		event MatchEvent
		want  string
	}{
		{
			name:  "goal_with_assist",
			event: MatchEvent{EventType: EventGoal, Player: &PlayerRef{Name: "Ali"}, Assist: &PlayerRef{Name: "Bo"}, GoalType: GoalRegular},
			want:  "Goal: Ali, assist Bo",
		},
		{
			name:  "penalty_goal",
			event: MatchEvent{EventType: EventGoal, Player: &PlayerRef{Name: "Ali"}, GoalType: GoalPenalty},
			want:  "Goal: Ali (penalty)",
		},
		{
			name:  "second_yellow",
			event: MatchEvent{EventType: EventSanction, Player: &PlayerRef{ID: "p1"}, Card: CardTwoYellows},
			want:  "Sanction: p1 (second yellow)",
		},
		{
			name:  "substitution",
			event: MatchEvent{EventType: EventSubstitution, PlayerOut: &PlayerRef{Name: "A"}, PlayerIn: &PlayerRef{Name: "B"}},
			want:  "Substitution: A → B",
		},
		{
			name:  "penalty_save_falls_back_to_player",
			event: MatchEvent{EventType: EventPenaltySave, Player: &PlayerRef{Name: "Keeper"}},
			want:  "Penalty saved by Keeper",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.event.Summary(); got != test.want {
				t.Fatalf("Summary() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestRawIDString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `"64b7f0c2a1e4d3f2b1c0a9e8"`, want: "64b7f0c2a1e4d3f2b1c0a9e8"},
		{raw: `42`, want: "42"},
		{raw: ` 7 `, want: "7"},
		{raw: `null`, want: ""},
		{raw: ``, want: ""},
		{raw: `{"_id":"x"}`, want: ""},
	}

	for _, test := range tests {
		if got := rawIDString([]byte(test.raw)); got != test.want {
			t.Errorf("rawIDString(%s) = %q, want %q", test.raw, got, test.want)
		}
	}
}
