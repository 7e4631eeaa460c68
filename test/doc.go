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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectSuccess and ExpectFailure functions test for failure and success
// of a value. The value can be a bool or an error. A nil error is a success.
// The Expect functions report a problem but allow the test to continue.
//
// The Demand functions are similar but will stop the test immediately if the
// demand is not met.
//
// ExpectEquality and DemandEquality compare like-typed values.
//
// The Writer type implements the io.Writer interface and should be used to
// capture output. The Compare() function can then be used to test for
// equality.
//
// All functions take an optional list of tags. The tags are prepended to the
// failure message and are useful for identifying which iteration of a table
// driven test has failed.
package test
