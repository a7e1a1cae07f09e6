// Package session holds the per-run game state that systems share: the
// player roster, the dead count, the key counter, the outcome and pending
// revive timers. It is built by the game and passed to each system that
// needs it.
package session

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

var (
	ErrRosterFull  = errors.New("session: roster full")
	ErrDeviceBound = errors.New("session: device already bound")
)

type Outcome int

const (
	Playing Outcome = iota
	GameOver
	GameWin
)

func (o Outcome) String() string {
	switch o {
	case GameOver:
		return "game_over"
	case GameWin:
		return "game_win"
	}
	return "playing"
}

// Member is one joined player.
type Member struct {
	Number int
	ID     string
	Device component.Device
	Entity ecs.Entity
}

type Session struct {
	maxPlayers int
	roster     []Member
	dead       map[int]bool
	keys       int
	outcome    Outcome

	nextToken uint64
	revives   map[int]uint64

	Bars *HealthBars
}

func New(maxPlayers int) *Session {
	if maxPlayers <= 0 {
		maxPlayers = 2
	}
	return &Session{
		maxPlayers: maxPlayers,
		dead:       make(map[int]bool),
		revives:    make(map[int]uint64),
		Bars:       NewHealthBars(),
	}
}

// Join adds a player for device. Numbers are handed out in join order.
func (s *Session) Join(device component.Device) (Member, error) {
	if _, ok := s.MemberFor(device); ok {
		return Member{}, ErrDeviceBound
	}
	if len(s.roster) >= s.maxPlayers {
		return Member{}, ErrRosterFull
	}
	m := Member{
		Number: len(s.roster) + 1,
		ID:     uuid.NewString(),
		Device: device,
	}
	s.roster = append(s.roster, m)
	log.Printf("session: player %d joined on %s (%s)", m.Number, device.Kind, m.ID)
	return m, nil
}

// Bind records the entity currently representing player number.
func (s *Session) Bind(number int, e ecs.Entity) {
	for i := range s.roster {
		if s.roster[i].Number == number {
			s.roster[i].Entity = e
			s.Bars.Bind(number, e)
			return
		}
	}
}

func (s *Session) Members() []Member {
	return append([]Member(nil), s.roster...)
}

func (s *Session) MemberFor(device component.Device) (Member, bool) {
	for _, m := range s.roster {
		if m.Device == device {
			return m, true
		}
	}
	return Member{}, false
}

func (s *Session) Full() bool {
	return len(s.roster) >= s.maxPlayers
}

func (s *Session) Outcome() Outcome {
	return s.outcome
}

func (s *Session) Decided() bool {
	return s.outcome != Playing
}

func (s *Session) DeadCount() int {
	return len(s.dead)
}

// PlayerDied counts player number as dead. It reports whether this call
// changed anything; a second death report for the same player is ignored.
// When every joined player is dead the session moves to GameOver.
func (s *Session) PlayerDied(number int) bool {
	if s.Decided() || s.dead[number] {
		return false
	}
	s.dead[number] = true
	if len(s.roster) > 0 && len(s.dead) >= len(s.roster) {
		s.decide(GameOver)
	}
	return true
}

// PlayerRevived removes player number from the dead count.
func (s *Session) PlayerRevived(number int) bool {
	if !s.dead[number] {
		return false
	}
	delete(s.dead, number)
	return true
}

func (s *Session) Keys() int {
	return s.keys
}

func (s *Session) AddKey() int {
	s.keys++
	return s.keys
}

// SpendKey uses one key if any are held.
func (s *Session) SpendKey() bool {
	if s.keys <= 0 {
		return false
	}
	s.keys--
	return true
}

// Win ends the run as a win. It reports whether the outcome changed.
func (s *Session) Win() bool {
	return s.decide(GameWin)
}

// Lose ends the run as a loss. It reports whether the outcome changed.
func (s *Session) Lose() bool {
	return s.decide(GameOver)
}

func (s *Session) decide(o Outcome) bool {
	if s.Decided() {
		return false
	}
	s.outcome = o
	s.CancelRevives()
	log.Printf("session: outcome %s", o)
	return true
}

// ScheduleRevive returns the revive token for player number, issuing one if
// none is pending. Repeated calls while a revive is pending return the same
// token so only one revive can ever complete.
func (s *Session) ScheduleRevive(number int) (uint64, bool) {
	if s.Decided() {
		return 0, false
	}
	if tok, ok := s.revives[number]; ok {
		return tok, true
	}
	s.nextToken++
	s.revives[number] = s.nextToken
	return s.nextToken, true
}

// CompleteRevive consumes token. It fails for cancelled or stale tokens.
func (s *Session) CompleteRevive(number int, token uint64) bool {
	if tok, ok := s.revives[number]; !ok || tok != token || s.Decided() {
		return false
	}
	delete(s.revives, number)
	return s.PlayerRevived(number)
}

func (s *Session) RevivePending(number int) bool {
	_, ok := s.revives[number]
	return ok
}

func (s *Session) CancelRevives() {
	for n := range s.revives {
		delete(s.revives, n)
	}
}

// Reset prepares for a reload of the level. The roster survives so the same
// devices keep their player numbers.
func (s *Session) Reset() {
	s.dead = make(map[int]bool)
	s.keys = 0
	s.outcome = Playing
	s.CancelRevives()
	for i := range s.roster {
		s.roster[i].Entity = ecs.NoEntity
	}
	s.Bars.Reset()
}

// Snapshot renders a one-line-per-field summary for debugging.
func (s *Session) Snapshot() string {
	var b strings.Builder
	fmt.Fprintf(&b, "outcome: %s\n", s.outcome)
	fmt.Fprintf(&b, "keys: %d\n", s.keys)
	fmt.Fprintf(&b, "dead: %d/%d\n", len(s.dead), len(s.roster))
	for _, m := range s.roster {
		fill, _ := s.Bars.Fill(m.Number)
		fmt.Fprintf(&b, "player %d: %s device=%s entity=%s health=%.2f dead=%v\n", m.Number, m.ID, m.Device.Kind, m.Entity, fill, s.dead[m.Number])
	}
	return b.String()
}
