package datastreams

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Settings holds the options of every output format, each format reads the ones it understands.
type Settings struct {
	common.FormatSettings
	WriteStatistics bool
	PrettyMaxRows   int
	PrettyColor     bool
}

type formatCreator func(w io.Writer, header []common.NameAndType, settings Settings) BlockOutputStream

var formats = map[string]formatCreator{
	FormatJSON: func(w io.Writer, header []common.NameAndType, settings Settings) BlockOutputStream {
		return NewBlockOutputStreamFromRowOutputStream(NewJSONRowOutputStream(w, header, JSONSettings{
			FormatSettings:  settings.FormatSettings,
			WriteStatistics: settings.WriteStatistics,
		}))
	},
	FormatTabSeparated: func(w io.Writer, header []common.NameAndType, _ Settings) BlockOutputStream {
		return NewBlockOutputStreamFromRowOutputStream(NewTabSeparatedRowOutputStream(w, header, false, false))
	},
	FormatTabSeparatedWithNamesAndTypes: func(w io.Writer, header []common.NameAndType, _ Settings) BlockOutputStream {
		return NewBlockOutputStreamFromRowOutputStream(NewTabSeparatedRowOutputStream(w, header, true, true))
	},
	FormatPrettyCompact: func(w io.Writer, _ []common.NameAndType, settings Settings) BlockOutputStream {
		return NewPrettyCompactBlockOutputStream(w, PrettySettings{MaxRows: settings.PrettyMaxRows, Color: settings.PrettyColor})
	},
}

// NewBlockOutputStream returns a stream writing blocks with the columns of header to w in the named format.
func NewBlockOutputStream(format string, w io.Writer, header []common.NameAndType, settings Settings) (BlockOutputStream, error) {
	create, ok := formats[format]
	if !ok {
		return nil, errors.NewUnknownFormatError(format)
	}
	log.Debugf("writing %d columns as %s", len(header), format)
	return create(w, header, settings), nil
}

// IsFormat reports whether format names a known output format.
func IsFormat(format string) bool {
	_, ok := formats[format]
	return ok
}

func Formats() []string {
	names := maps.Keys(formats)
	slices.Sort(names)
	return names
}
