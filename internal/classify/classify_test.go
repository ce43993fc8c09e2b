package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sadopc/brainrot/internal/usage"
)

func newDefault() *Classifier {
	return New("brainrot", DefaultSeeds())
}

func TestClassifyDefaults(t *testing.T) {
	c := newDefault()
	require.Equal(t, usage.Rot, c.Classify("chrome"))
	require.Equal(t, usage.Rot, c.Classify("SPOTIFY"))
	require.Equal(t, usage.Focus, c.Classify("notepad"))
	require.Equal(t, usage.Focus, c.Classify("code"))
	require.Equal(t, usage.Neutral, c.Classify("never-seen"))
	require.Equal(t, usage.Ignored, c.Classify("explorer"))
	require.Equal(t, usage.Ignored, c.Classify("Brainrot"), "the tracker never counts itself")
}

func TestClassifyPriority(t *testing.T) {
	// A seed listed in both Rot and Focus ends up in exactly one set.
	c := New("", Seeds{Rot: []string{"dual"}, Focus: []string{"dual"}})
	require.Equal(t, usage.Rot, c.Classify("dual"))
	require.NotContains(t, c.Members(usage.Focus), "dual")
}

func TestAssignMovesBetweenSets(t *testing.T) {
	c := newDefault()
	name, ok := c.Assign("  chrome ", usage.Focus)
	require.True(t, ok)
	require.Equal(t, "chrome", name)
	require.Equal(t, usage.Focus, c.Classify("chrome"))
	require.NotContains(t, c.Members(usage.Rot), "chrome")
	require.Contains(t, c.Members(usage.Focus), "chrome")

	_, ok = c.Assign("chrome", usage.Neutral)
	require.True(t, ok)
	require.Equal(t, usage.Neutral, c.Classify("chrome"))
	require.Contains(t, c.Members(usage.Neutral), "chrome")
	require.NotContains(t, c.Members(usage.Focus), "chrome")
}

func TestAssignBlankIsNoop(t *testing.T) {
	c := newDefault()
	before := c.Assignments()
	_, ok := c.Assign("   ", usage.Rot)
	require.False(t, ok)
	_, ok = c.Assign("slack", usage.Ignored)
	require.False(t, ok)
	require.Equal(t, before, c.Assignments())
}

func TestAutoDiscoverThreshold(t *testing.T) {
	c := newDefault()
	require.False(t, c.AutoDiscover("slack", 4))
	require.NotContains(t, c.Members(usage.Neutral), "slack")

	require.True(t, c.AutoDiscover("slack", 5))
	require.Contains(t, c.Members(usage.Neutral), "slack")
	require.False(t, c.AutoDiscover("slack", 6), "only the first crossing surfaces the app")
	require.False(t, c.AutoDiscover("SLACK", 7))
}

func TestAutoDiscoverSkipsKnownAndIgnored(t *testing.T) {
	c := newDefault()
	require.False(t, c.AutoDiscover("chrome", 100))
	require.False(t, c.AutoDiscover("explorer", 100))
	require.False(t, c.AutoDiscover("brainrot", 100))
	require.False(t, c.AutoDiscover("", 100))
}

func TestLoadOverridesSeeds(t *testing.T) {
	c := newDefault()
	c.Load(map[string]usage.Category{
		"chrome": usage.Focus,
		"slack":  usage.Rot,
		"vlc":    usage.Neutral,
	})
	require.Equal(t, usage.Focus, c.Classify("chrome"))
	require.Equal(t, usage.Rot, c.Classify("slack"))
	require.Equal(t, usage.Neutral, c.Classify("vlc"))
	require.True(t, c.Known("vlc"))
}

func TestSetIgnored(t *testing.T) {
	c := newDefault()
	c.SetIgnored([]string{"steam"})
	require.Equal(t, usage.Ignored, c.Classify("steam"))
	require.Equal(t, usage.Neutral, c.Classify("explorer"))
	require.Equal(t, []string{"steam"}, c.Members(usage.Ignored))
}

func TestAssignmentsCoverAllSets(t *testing.T) {
	c := New("", Seeds{Rot: []string{"a"}, Focus: []string{"b"}, Neutral: []string{"c"}, Ignored: []string{"d"}})
	require.Equal(t, map[string]usage.Category{
		"a": usage.Rot,
		"b": usage.Focus,
		"c": usage.Neutral,
	}, c.Assignments())
}

func TestMembersSortedCaseInsensitive(t *testing.T) {
	c := New("", Seeds{Focus: []string{"notepad", "Code", "EXCEL"}})
	require.Equal(t, []string{"Code", "EXCEL", "notepad"}, c.Members(usage.Focus))
}
