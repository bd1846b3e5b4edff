package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

func useShippedContent(t *testing.T) {
	t.Helper()
	t.Setenv("SKIRMISH_CONTENT_WEAPONS_DIR", "../../content/weapons")
	t.Setenv("SKIRMISH_CONTENT_ARMOR_DIR", "../../content/armor")
	t.Setenv("SKIRMISH_CONTENT_PROFILES_DIR", "../../content/profiles")
	t.Setenv("SKIRMISH_CONTENT_HONORS_DIR", "../../content/honors")
	t.Setenv("SKIRMISH_LOGGING_LEVEL", "error")
}

func TestRun_SingleDuelReport(t *testing.T) {
	useShippedContent(t)
	var out bytes.Buffer
	err := run([]string{
		"-a-faction", "High Elves", "-a-profile", "Prince", "-a-weapon", "Great Weapon",
		"-b-faction", "Orcs", "-b-profile", "Black Orc Boss", "-b-shield",
		"-rounds", "3", "-seed", "7",
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Prince (great_weapon) vs Black Orc Boss (hand_weapon)")
	assert.Contains(t, out.String(), "Round 1")
	assert.Contains(t, out.String(), "Wounds left:")
}

func TestRun_SeededReportsReproduce(t *testing.T) {
	useShippedContent(t)
	args := []string{
		"-a-faction", "High Elves", "-a-profile", "Noble",
		"-b-faction", "Orcs", "-b-profile", "Orc Boss",
		"-seed", "99",
	}
	var first, second bytes.Buffer
	require.NoError(t, run(args, &first))
	require.NoError(t, run(args, &second))
	assert.Equal(t, first.String(), second.String())
}

func TestRun_Simulation(t *testing.T) {
	useShippedContent(t)
	var out bytes.Buffer
	err := run([]string{
		"-a-faction", "High Elves", "-a-profile", "Korhil",
		"-b-faction", "Orcs", "-b-profile", "Orc Boss",
		"-iterations", "200", "-seed", "3",
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "200 duels:")
	assert.Contains(t, out.String(), "mean rounds")
}

func TestRun_List(t *testing.T) {
	useShippedContent(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"-list"}, &out))
	assert.Contains(t, out.String(), "High Elves / Ishaya Vess")
	assert.Contains(t, out.String(), "Orcs / Black Orc Boss")
}

func TestRun_InvalidRequest(t *testing.T) {
	useShippedContent(t)
	var out bytes.Buffer
	err := run([]string{
		"-a-faction", "Orcs", "-a-profile", "Orc Boss", "-a-honors", "Loremaster",
		"-b-faction", "Orcs", "-b-profile", "Orc Boss",
	}, &out)
	require.Error(t, err)
	var ce *character.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Sea Guard", "Loremaster"}, splitList(" Sea Guard , ,Loremaster"))
	assert.Nil(t, splitList(""))
}

func TestOptionalBool(t *testing.T) {
	var o optionalBool
	assert.Equal(t, "", o.String())
	require.NoError(t, o.Set("false"))
	require.NotNil(t, o.v)
	assert.False(t, *o.v)
	assert.Error(t, o.Set("maybe"))
}
