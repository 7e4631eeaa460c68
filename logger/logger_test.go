// This file is part of rp2040emu.
//
// rp2040emu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rp2040emu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rp2040emu.  If not, see <https://www.gnu.org/licenses/>.

package logger_test

import (
	"testing"

	"github.com/jetsetilly/rp2040emu/logger"
	"github.com/jetsetilly/rp2040emu/test"
)

func TestLogger(t *testing.T) {
	tw := &test.Writer{}
	log := logger.NewLogger(100)

	test.ExpectFailure(t, log.Write(tw))
	test.ExpectSuccess(t, tw.Compare(""))

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(tw)
	test.ExpectEquality(t, tw.String(), "test: this is a test\n")

	tw.Clear()
	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(tw)
	test.ExpectEquality(t, tw.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	log.Tail(tw, 100)
	test.ExpectEquality(t, tw.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for exactly the correct number of entries is okay
	tw.Clear()
	log.Tail(tw, 2)
	test.ExpectEquality(t, tw.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	tw.Clear()
	log.Tail(tw, 1)
	test.ExpectEquality(t, tw.String(), "test2: this is another test\n")

	// and no entries
	tw.Clear()
	log.Tail(tw, 0)
	test.ExpectEquality(t, tw.String(), "")
}

func TestLoggerRepeat(t *testing.T) {
	tw := &test.Writer{}
	log := logger.NewLogger(100)

	log.Log(logger.Allow, "bus", "unresolved read")
	log.Log(logger.Allow, "bus", "unresolved read")
	log.Logf(logger.Allow, "bus", "unresolved %s", "read")
	log.Write(tw)
	test.ExpectEquality(t, tw.String(), "bus: unresolved read (repeat x3)\n")
}

func TestLoggerBounded(t *testing.T) {
	tw := &test.Writer{}
	log := logger.NewLogger(2)

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")
	log.Write(tw)
	test.ExpectEquality(t, tw.String(), "b: 2\nc: 3\n")

	tw.Clear()
	log.Clear()
	test.ExpectFailure(t, log.Write(tw))
}

func TestLoggerRecentAndEcho(t *testing.T) {
	tw := &test.Writer{}
	echo := &test.Writer{}
	log := logger.NewLogger(10)
	log.SetEcho(echo)

	log.Log(logger.Allow, "a", "1")
	log.WriteRecent(tw)
	test.ExpectEquality(t, tw.String(), "a: 1\n")

	tw.Clear()
	log.Log(logger.Allow, "b", "2")
	log.WriteRecent(tw)
	test.ExpectEquality(t, tw.String(), "b: 2\n")

	test.ExpectEquality(t, echo.String(), "a: 1\nb: 2\n")
}

type deny struct{}

func (deny) AllowLogging() bool {
	return false
}

func TestPermission(t *testing.T) {
	tw := &test.Writer{}
	log := logger.NewLogger(10)

	log.Log(deny{}, "a", "1")
	log.Logf(deny{}, "a", "%d", 2)
	test.ExpectFailure(t, log.Write(tw))

	var n int
	log.BorrowLog(func(e []logger.Entry) {
		n = len(e)
	})
	test.ExpectEquality(t, n, 0)
}

func TestColorizer(t *testing.T) {
	tw := &test.Writer{}
	c := logger.NewColorizer(tw)
	c.Write([]byte("bus: test\n"))
	test.ExpectEquality(t, tw.String(), "\033[36mbus\033[0m: \033[2mtest\033[0m\n")
}
