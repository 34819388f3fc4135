package cmd

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
)

// scenario is one named demonstration driver, in the spirit of the
// memcpy-test.c driver's commented-out blocks: random_array, delay_memcpy,
// then a targeted read or write that triggers materialization.
type scenario struct {
	name        string
	description string
	run         func(w io.Writer) error
}

func printArray(w io.Writer, label string, data []byte, n int) {
	if n > len(data) {
		n = len(data)
	}
	fmt.Fprintf(w, "%s: ", label)
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%02x ", data[i])
	}
	fmt.Fprintln(w)
}

func randomArray(seed int64, n int) []byte {
	r := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	r.Read(buf)
	return buf
}

func readRegion(r *lazycopy.Region) ([]byte, error) {
	buf := make([]byte, r.Size())
	if _, err := r.CopyOut(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

var scenarios = []scenario{
	{
		name:        "read-trigger",
		description: "one page, materialization triggered by reading the destination",
		run: func(w io.Writer) error {
			a, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			data := randomArray(1, pageSize())
			if _, err := a.Fill(data); err != nil {
				return err
			}
			fmt.Fprintln(w, "Copying one page of data, trigger copy via read dst...")
			printArray(w, "Before copy", data, 20)
			if err := lazycopy.LazyCopy(b, a, 0, pageSize()); err != nil {
				return err
			}
			got, err := readRegion(b)
			if err != nil {
				return err
			}
			printArray(w, "Destination", got, 20)
			return nil
		},
	},
	{
		name:        "write-dst-trigger",
		description: "one page, materialization triggered by a write into the destination",
		run: func(w io.Writer) error {
			a, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			data := randomArray(2, pageSize())
			a.Fill(data)
			fmt.Fprintln(w, "Copying one page of data, trigger copy via write dst...")
			printArray(w, "Before copy", data, 20)
			if err := lazycopy.LazyCopy(b, a, 0, pageSize()); err != nil {
				return err
			}
			v, err := b.Byte(0)
			if err != nil {
				return err
			}
			if err := b.Set(0, v+1); err != nil {
				return err
			}
			got, err := readRegion(b)
			if err != nil {
				return err
			}
			printArray(w, "Destination", got, 20)
			return nil
		},
	},
	{
		name:        "write-src-trigger",
		description: "one page, materialization triggered by a write into the source",
		run: func(w io.Writer) error {
			a, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			data := randomArray(3, pageSize())
			a.Fill(data)
			fmt.Fprintln(w, "Copying one page of data, trigger copy via write src...")
			printArray(w, "Before copy", data, 20)
			if err := lazycopy.LazyCopy(b, a, 0, pageSize()); err != nil {
				return err
			}
			v, err := a.Byte(0)
			if err != nil {
				return err
			}
			if err := a.Set(0, v+1); err != nil {
				return err
			}
			gotA, err := readRegion(a)
			if err != nil {
				return err
			}
			gotB, err := readRegion(b)
			if err != nil {
				return err
			}
			printArray(w, "After copy", gotA, 20)
			printArray(w, "Destination", gotB, 20)
			return nil
		},
	},
	{
		name:        "two-pages",
		description: "two pages, each half materializes independently",
		run: func(w io.Writer) error {
			size := 2 * pageSize()
			a, err := lazycopy.NewRegion(size)
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(size)
			if err != nil {
				return err
			}
			data := randomArray(4, size)
			a.Fill(data)
			fmt.Fprintln(w, "Copying two pages of data...")
			printArray(w, "Before copy", data, 20)
			if err := lazycopy.LazyCopy(b, a, 0, size); err != nil {
				return err
			}
			got, err := readRegion(b)
			if err != nil {
				return err
			}
			printArray(w, "Destination", got[:20], 20)
			second := pageSize() + 0x800
			printArray(w, "2nd page", got[second:second+20], 20)
			return nil
		},
	},
	{
		name:        "unaligned",
		description: "a copy offset that does not start on a page boundary",
		run: func(w io.Writer) error {
			size := 2 * pageSize()
			a, err := lazycopy.NewRegion(size)
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(size)
			if err != nil {
				return err
			}
			data := randomArray(5, size)
			a.Fill(data)
			fmt.Fprintln(w, "Copying unaligned range of data...")
			printArray(w, "Before copy", data[0x400:], 20)
			if err := lazycopy.LazyCopy(b, a, 0x400, pageSize()); err != nil {
				return err
			}
			got, err := readRegion(b)
			if err != nil {
				return err
			}
			printArray(w, "Destination", got[0x400:], 20)
			return nil
		},
	},
	{
		name:        "chained",
		description: "A copied to B, B copied to C, B mutated before C is read",
		run: func(w io.Writer) error {
			a, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			b, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			c, err := lazycopy.NewRegion(pageSize())
			if err != nil {
				return err
			}
			data := randomArray(6, pageSize())
			a.Fill(data)
			fmt.Fprintln(w, "Copying A to B to C")
			printArray(w, "Before copy", data, 20)
			if err := lazycopy.LazyCopy(b, a, 0, pageSize()); err != nil {
				return err
			}
			if err := lazycopy.LazyCopy(c, b, 0, pageSize()); err != nil {
				return err
			}
			v, err := b.Byte(0)
			if err != nil {
				return err
			}
			if err := b.Set(0, v+1); err != nil {
				return err
			}
			gotB, err := readRegion(b)
			if err != nil {
				return err
			}
			gotC, err := readRegion(c)
			if err != nil {
				return err
			}
			printArray(w, "Destination B", gotB, 20)
			printArray(w, "Destination C", gotC, 20)
			return nil
		},
	},
}

func pageSize() int {
	return lazycopy.PageSize()
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}
