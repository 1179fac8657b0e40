package codec

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ssargent/roster/pkg/student"
)

func testRecords() []student.Record {
	return []student.Record{
		{FullName: "Иванов Иван Иванович", Group: "ИТ-21", Subject: "Программирование", Grade: 5},
		{FullName: "Jane Doe", Group: "CS-1", Subject: "Math", Grade: 0, Expelled: true},
		{FullName: "", Group: "", Subject: "", Grade: 3},
		{FullName: "🎯 unicode", Group: "émojis", Subject: "Physics", Grade: 1},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		records []student.Record
	}{
		{name: "mixed records", records: testRecords()},
		{name: "single record", records: testRecords()[:1]},
		{name: "empty list", records: []student.Record{}},
		{
			name: "large fields",
			records: []student.Record{{
				FullName: strings.Repeat("n", 1024),
				Group:    strings.Repeat("g", 300),
				Subject:  strings.Repeat("s", 10240),
				Grade:    4,
			}},
		},
	}

	for _, f := range Formats {
		for _, tc := range testCases {
			t.Run(f.String()+"/"+tc.name, func(t *testing.T) {
				c := ForFormat(f)
				var buf bytes.Buffer
				if err := c.Encode(&buf, tc.records); err != nil {
					t.Fatalf("Encode failed: %v", err)
				}

				decoded, err := c.Decode(&buf)
				if err != nil {
					t.Fatalf("Decode failed: %v", err)
				}

				if !reflect.DeepEqual(decoded, tc.records) {
					t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, tc.records)
				}
			})
		}
	}
}

func TestCodec_IDsAreNotPersisted(t *testing.T) {
	for _, f := range Formats {
		records := []student.Record{{FullName: "A", Group: "B", Subject: "C", Grade: 2}}
		records[0].ID[0] = 1

		data, err := Marshal(f, records)
		if err != nil {
			t.Fatalf("%s: Marshal failed: %v", f, err)
		}
		decoded, err := Unmarshal(f, data)
		if err != nil {
			t.Fatalf("%s: Unmarshal failed: %v", f, err)
		}
		if !decoded[0].ID.IsNil() {
			t.Errorf("%s: expected nil ID after decode, got %s", f, decoded[0].ID)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	testCases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"students.dat", FormatBinary, true},
		{"/tmp/out.txt", FormatText, true},
		{"C:/data/roster.BIN", FormatBytes, true},
		{"roster.Txt", FormatText, true},
		{"roster.csv", FormatUnknown, false},
		{"roster", FormatUnknown, false},
		{"", FormatUnknown, false},
	}

	for _, tc := range testCases {
		got, ok := FormatFromPath(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FormatFromPath(%q) = %v, %v; want %v, %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	for _, f := range Formats {
		got, ok := FormatFromPath("x" + f.Extension())
		if !ok || got != f {
			t.Errorf("extension %q does not resolve back to %s", f.Extension(), f)
		}
	}
	if FormatUnknown.Extension() != "" {
		t.Errorf("unknown format should have no extension")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"binary": FormatBinary, ".dat": FormatBinary,
		"TEXT": FormatText, "txt": FormatText,
		"bytes": FormatBytes, "bin": FormatBytes,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestMarshal_UnknownFormat(t *testing.T) {
	if _, err := Marshal(FormatUnknown, nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Marshal: expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Unmarshal(FormatUnknown, nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Unmarshal: expected ErrUnknownFormat, got %v", err)
	}
	if ForFormat(FormatUnknown) != nil {
		t.Errorf("ForFormat(FormatUnknown) should be nil")
	}
}

func TestCodec_FormatReportsItself(t *testing.T) {
	for _, f := range Formats {
		if got := ForFormat(f).Format(); got != f {
			t.Errorf("ForFormat(%s).Format() = %s", f, got)
		}
	}
}
