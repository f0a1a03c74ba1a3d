package session

import (
	"fmt"
	"time"

	"github.com/tomz197/hyperjump/internal/config"
)

var titleArt = []string{
	` _  ___   _____ ___ ___    _ _   _ __  __ ___ `,
	`| || \ \ / / _ \ __| _ \_ | | | | |  \/  | _ \`,
	`| __ |\ V /|  _/ _||   / || | |_| | |\/| |  _/`,
	`|_||_| |_| |_| |___|_|_\\__/ \___/|_|  |_|_|  `,
}

var controlLines = []string{
	"W / Up  . . . . . Thrust",
	"A D / < >  . . .  Rotate",
	"SPACE  . . . . . . Shoot",
	"F  . . Shield piercer",
	"H / E  . . .  Hyperspace",
	"Q  . . . . . . . .  Quit",
}

var creditLines = []string{
	"HYPERJUMP",
	"",
	"A terminal take on the asteroid field",
	"",
	"Built with Go",
	"charmbracelet/wish . . . SSH",
	"gopxl/beep . . . . . . Sound",
	"modernc.org/sqlite . . Scores",
	"",
	"Thanks for playing",
}

// Render draws the current screen.
func (s *Session) Render() error {
	// full clear on screen or inactivity transitions so text from the
	// previous screen does not linger
	if s.screen != s.prevScreen || s.inactive != s.wasInactive {
		s.cw.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.prevScreen = s.screen
		s.wasInactive = s.inactive
	}

	s.canvas.Clear()
	if s.screen == ScreenPlaying && s.world != nil {
		s.world.Draw(s.canvas, s.ctrl.View().Hyperspacing)
	}
	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(s.cw); err != nil {
		return err
	}

	cx, cy := s.canvas.Cols()/2, s.canvas.Rows()/2
	switch {
	case s.screen == ScreenShutdown:
		s.drawShutdown(cx, cy)
	case s.inactive:
		s.drawInactivity(cx, cy)
	case s.screen == ScreenMenu:
		s.drawMenu(cx, cy)
	case s.screen == ScreenPlaying:
		s.drawHUD(cx, cy)
	case s.screen == ScreenCredits:
		s.drawCredits(cx, cy)
	}
	return s.cw.Flush()
}

// text writes centered text and marks the cells under it for repaint.
func (s *Session) text(cx, row int, str string) {
	col := s.cw.WriteCentered(cx, row, str)
	s.canvas.MarkTextDirty(col, row, len([]rune(str)))
}

func (s *Session) drawMenu(cx, cy int) {
	top := cy - 9
	for i, line := range titleArt {
		s.text(cx, top+i, line)
	}
	s.text(cx, top+len(titleArt)+1, "~ Asteroids with a hyperspace drive ~")

	items := [menuCount]string{menuNewGame: "New Game", menuQuit: "Quit"}
	row := top + len(titleArt) + 3
	for i, item := range items {
		if i == s.menuItem {
			item = "> " + item + " <"
		} else {
			item = "  " + item + "  "
		}
		s.text(cx, row+i, item)
	}

	row += menuCount + 1
	if s.best > 0 {
		s.text(cx, row, fmt.Sprintf("Best: %d", s.best))
	}
	for i, line := range controlLines {
		s.text(cx, row+2+i, line)
	}
	if time.Now().UnixMilli()/600%2 == 0 {
		s.text(cx, row+3+len(controlLines), ">>  Press ENTER  <<")
	}
}

// drawHUD writes fixed-width fields so shrinking numbers leave no residue.
func (s *Session) drawHUD(cx, cy int) {
	w := s.canvas.Cols()
	h := s.hud

	score := fmt.Sprintf("Score: %-8d", h.Score)
	s.cw.WriteAt(2, 1, score)
	s.canvas.MarkTextDirty(2, 1, len(score))

	level := fmt.Sprintf("Level: %-3d", h.Level)
	s.text(cx, 1, level)

	lives := fmt.Sprintf("Lives: %-2d Jumps: %-2d", h.Lives, h.Jumps)
	s.cw.WriteAt(w-len(lives)-1, 1, lives)
	s.canvas.MarkTextDirty(w-len(lives)-1, 1, len(lives))

	if s.message != "" {
		s.text(cx, cy-4, s.message)
	}
}

func (s *Session) drawCredits(cx, cy int) {
	top := cy - len(creditLines)/2
	for i, line := range creditLines {
		s.text(cx, top+i, line)
	}
	if s.canSkipCredits {
		s.text(cx, top+len(creditLines)+2, "Press any key to skip")
	}
}

func (s *Session) drawInactivity(cx, cy int) {
	s.text(cx, cy-2, "INACTIVITY WARNING")
	left := int(config.InactivityDisconnectUser - s.idle)
	s.text(cx, cy, fmt.Sprintf("You have been inactive for too long. Disconnecting in %3d seconds.", left))
	s.text(cx, cy+2, "Press any key to continue")
}

func (s *Session) drawShutdown(cx, cy int) {
	s.text(cx, cy-3, "SERVER SHUTTING DOWN")
	s.text(cx, cy-1, "The server is restarting for maintenance.")
	s.text(cx, cy, "Please reconnect in a moment.")
	s.text(cx, cy+2, fmt.Sprintf("Disconnecting in %d seconds...", int(s.shutdown)+1))
	s.text(cx, cy+4, "Press Q to disconnect now")
}
