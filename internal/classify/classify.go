// Package classify maps application identities to usage categories.
package classify

import (
	"slices"
	"strings"

	"github.com/sadopc/brainrot/internal/usage"
)

// AutoDiscoverSeconds is how long an unknown application must be used in a
// day before it is listed as Neutral.
const AutoDiscoverSeconds = 5

// Seeds are the initial category sets.
type Seeds struct {
	Rot     []string
	Focus   []string
	Neutral []string
	Ignored []string
}

// DefaultSeeds returns the built-in category lists.
func DefaultSeeds() Seeds {
	return Seeds{
		Rot: []string{
			"chrome", "msedge", "discord", "steam", "Spotify", "TikTok", "Instagram",
		},
		Focus: []string{
			"Code", "devenv", "WINWORD", "EXCEL", "POWERPNT", "notepad", "Notion",
		},
		Ignored: []string{
			"ApplicationFrameHost", "ShellExperienceHost", "RuntimeBroker", "SearchHost",
			"dllhost", "sihost", "ctfmon", "TextInputHost", "SystemSettings", "Idle", "explorer",
		},
	}
}

// set is a case-insensitive string set that remembers the first spelling.
type set map[string]string

func newSet(names []string) set {
	s := make(set, len(names))
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s set) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := s[key]; !ok {
		s[key] = name
	}
}

func (s set) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

func (s set) remove(name string) {
	delete(s, strings.ToLower(name))
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for _, name := range s {
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}

// Classifier holds the Rot, Focus, Neutral and Ignored sets. It is not safe
// for concurrent use.
type Classifier struct {
	self    string
	rot     set
	focus   set
	neutral set
	ignored set
}

// New creates a classifier that always ignores self.
func New(self string, seeds Seeds) *Classifier {
	c := &Classifier{
		self:    strings.TrimSpace(self),
		rot:     newSet(nil),
		focus:   newSet(nil),
		neutral: newSet(nil),
		ignored: newSet(seeds.Ignored),
	}
	// Seeds go through the same move logic as user assignments so a name
	// listed twice ends up in exactly one set.
	for _, n := range seeds.Neutral {
		c.Assign(n, usage.Neutral)
	}
	for _, n := range seeds.Focus {
		c.Assign(n, usage.Focus)
	}
	for _, n := range seeds.Rot {
		c.Assign(n, usage.Rot)
	}
	return c
}

func (c *Classifier) IsSelf(app string) bool {
	return c.self != "" && strings.EqualFold(strings.TrimSpace(app), c.self)
}

func (c *Classifier) IsIgnored(app string) bool {
	return c.IsSelf(app) || c.ignored.has(strings.TrimSpace(app))
}

// Known reports whether app is explicitly listed in Rot, Focus or Neutral.
func (c *Classifier) Known(app string) bool {
	app = strings.TrimSpace(app)
	return c.rot.has(app) || c.focus.has(app) || c.neutral.has(app)
}

// Classify returns the category of app. Unlisted applications are Neutral;
// the tracker itself and the Ignored set yield Ignored.
func (c *Classifier) Classify(app string) usage.Category {
	app = strings.TrimSpace(app)
	switch {
	case c.IsIgnored(app):
		return usage.Ignored
	case c.rot.has(app):
		return usage.Rot
	case c.focus.has(app):
		return usage.Focus
	}
	return usage.Neutral
}

// Assign moves app into the set for cat. It returns the trimmed name and
// false when app is blank or cat is not a countable category.
func (c *Classifier) Assign(app string, cat usage.Category) (string, bool) {
	name := strings.TrimSpace(app)
	if name == "" || !cat.Counted() {
		return name, false
	}
	c.rot.remove(name)
	c.focus.remove(name)
	c.neutral.remove(name)
	c.setFor(cat).add(name)
	return name, true
}

func (c *Classifier) setFor(cat usage.Category) set {
	switch cat {
	case usage.Rot:
		return c.rot
	case usage.Focus:
		return c.focus
	}
	return c.neutral
}

// AutoDiscover lists an unknown application as Neutral once it has been used
// for AutoDiscoverSeconds today. It returns true only on the call that adds it.
func (c *Classifier) AutoDiscover(app string, secondsSoFar int64) bool {
	app = strings.TrimSpace(app)
	if app == "" || c.IsIgnored(app) || c.Known(app) || secondsSoFar < AutoDiscoverSeconds {
		return false
	}
	c.neutral.add(app)
	return true
}

// Load applies persisted assignments on top of the current sets.
func (c *Classifier) Load(assignments map[string]usage.Category) {
	names := make([]string, 0, len(assignments))
	for name := range assignments {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c.Assign(name, assignments[name])
	}
}

// SetIgnored replaces the Ignored set.
func (c *Classifier) SetIgnored(names []string) {
	c.ignored = newSet(names)
}

// Members returns the sorted members of cat.
func (c *Classifier) Members(cat usage.Category) []string {
	if cat == usage.Ignored {
		return c.ignored.sorted()
	}
	return c.setFor(cat).sorted()
}

// Assignments returns every explicit Rot, Focus and Neutral membership.
func (c *Classifier) Assignments() map[string]usage.Category {
	out := make(map[string]usage.Category, len(c.rot)+len(c.focus)+len(c.neutral))
	for _, name := range c.neutral {
		out[name] = usage.Neutral
	}
	for _, name := range c.focus {
		out[name] = usage.Focus
	}
	for _, name := range c.rot {
		out[name] = usage.Rot
	}
	return out
}
