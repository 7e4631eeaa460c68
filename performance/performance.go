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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040"
)

// the timer channel is only checked every performanceBrake instructions
const performanceBrake = 10000

// sentinal error returned by the run loop.
var timedOut = errors.New("performance timed out")

// CheckError is the error pattern for errors returned by Check().
const CheckError = "performance: %v"

// Result of a performance check.
type Result struct {
	Instructions uint64
	Duration     time.Duration
}

// IPS returns the number of instructions executed per second.
func (r Result) IPS() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Instructions) / r.Duration.Seconds()
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f MIPS (%d instructions in %.2f seconds)", r.IPS()/1000000, r.Instructions, r.Duration.Seconds())
}

// Check the performance of the emulator. The RP2040 should have been prepared
// with firmware and reset.
//
// Emulation will run for the specified duration, or until a BKPT or UDF
// instruction is executed, and will create the profiles defined by the
// Profile argument.
func Check(output io.Writer, profile Profile, mcu *rp2040.RP2040, duration string) (Result, error) {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return Result{}, curated.Errorf(CheckError, err)
	}

	var res Result
	breaks := mcu.BreakCount()

	runner := func() error {
		startInstructions := mcu.Executed()
		startTime := time.Now()

		timer := time.NewTimer(dur)
		defer timer.Stop()

		defer func() {
			res.Instructions = mcu.Executed() - startInstructions
			res.Duration = time.Since(startTime)
		}()

		brake := 0
		for {
			err := mcu.ExecuteInstruction()
			if err != nil {
				return err
			}

			if mcu.BreakCount() != breaks && !mcu.HardFaultOnBreak {
				return nil
			}

			brake++
			if brake >= performanceBrake {
				brake = 0
				select {
				case <-timer.C:
					return timedOut
				default:
				}
			}
		}
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return res, curated.Errorf(CheckError, err)
	}

	fmt.Fprintln(output, res)

	return res, nil
}
