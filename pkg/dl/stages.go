package dl

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/datapipes/downpipe/pkg/archive"
	"github.com/datapipes/downpipe/pkg/conn"
	"github.com/datapipes/downpipe/pkg/parse"
	"github.com/datapipes/downpipe/pkg/pipe"
	"github.com/datapipes/downpipe/pkg/textutil"
)

// Download builds a stage that fetches the piped-in file name. A nil remote
// downloads over HTTP, treating the name as a URL.
func Download(ctx context.Context, remote conn.Remote, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		name, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("download: want a file name, got %s", v)
		}
		if remote == nil {
			path, err := conn.Fetch(ctx, name)
			return pipe.Scalar(path), err
		}
		path, err := remote.Download(ctx, name)
		return pipe.Scalar(path), err
	}, opts...)
}

// Contents builds a stage listing the piped-in remote path.
func Contents(ctx context.Context, remote conn.Remote, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		if remote == nil {
			return pipe.Value{}, fmt.Errorf("contents: a remote connection is required")
		}
		path, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("contents: want a path, got %s", v)
		}
		names, err := remote.Contents(ctx, path)
		return pipe.Of(names), err
	}, opts...)
}

// ParseCSV builds a stage parsing the piped-in local path as delimited rows.
func ParseCSV(delimiter rune, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		path, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("parse csv: want a path, got %s", v)
		}
		rows, err := parse.CSV(path, delimiter)
		return pipe.Of(rows), err
	}, opts...)
}

// ParseJSON builds a stage decoding the piped-in local path as JSON.
func ParseJSON(opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		path, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("parse json: want a path, got %s", v)
		}
		parsed, err := parse.JSON(path)
		return pipe.Of(parsed), err
	}, opts...)
}

// ParseXML builds a stage extracting tag-matched subtrees from the piped-in
// local path.
func ParseXML(tag string, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		path, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("parse xml: want a path, got %s", v)
		}
		matched, err := parse.XML(path, tag)
		return pipe.Of(matched), err
	}, opts...)
}

// Untar builds a stage extracting the piped-in tar path, yielding the
// extracted file paths.
func Untar(logger *zap.Logger, opts ...pipe.Option) *pipe.Pipe {
	return extractStage("untar", func(path string) ([]string, error) {
		return archive.Untar(path, logger)
	}, opts)
}

// Unzip builds a stage extracting the piped-in zip path.
func Unzip(password string, logger *zap.Logger, opts ...pipe.Option) *pipe.Pipe {
	return extractStage("unzip", func(path string) ([]string, error) {
		return archive.Unzip(path, password, logger)
	}, opts)
}

// Ungzip builds a stage decompressing the piped-in gzip path.
func Ungzip(logger *zap.Logger, opts ...pipe.Option) *pipe.Pipe {
	return extractStage("ungzip", func(path string) ([]string, error) {
		return archive.Ungzip(path, logger)
	}, opts)
}

func extractStage(name string, extract func(string) ([]string, error), opts []pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		path, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("%s: want a path, got %s", name, v)
		}
		extracted, err := extract(path)
		return pipe.Of(extracted), err
	}, opts...)
}

// Split builds a stage splitting the piped-in string by pattern; an empty
// pattern splits on non-word runs.
func Split(pattern string, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		s, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("split: want a string, got %s", v)
		}
		parts, err := textutil.Split(s, pattern)
		return pipe.Of(parts), err
	}, opts...)
}

// Strip builds a stage trimming both ends of the piped-in string by pattern.
func Strip(pattern string, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		s, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("strip: want a string, got %s", v)
		}
		out, err := textutil.Strip(s, pattern)
		return pipe.Scalar(out), err
	}, opts...)
}

// Capitalize builds a stage capitalizing each word of the piped-in string.
func Capitalize(opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		s, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("capitalize: want a string, got %s", v)
		}
		return pipe.Scalar(textutil.Capitalize(s)), nil
	}, opts...)
}

// DateFromString builds a stage parsing the piped-in string as a date by
// layout, tolerant of trailing noise.
func DateFromString(layout string, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		s, ok := v.Str()
		if !ok {
			return pipe.Value{}, fmt.Errorf("date from string: want a string, got %s", v)
		}
		t, err := textutil.ParseDate(s, layout)
		return pipe.Scalar(t), err
	}, opts...)
}

// StringFromDate builds a stage rendering the piped-in time with layout.
func StringFromDate(layout string, opts ...pipe.Option) *pipe.Pipe {
	return pipe.New(func(v pipe.Value) (pipe.Value, error) {
		t, ok := v.Time()
		if !ok {
			return pipe.Value{}, fmt.Errorf("string from date: want a time, got %s", v)
		}
		return pipe.Scalar(textutil.FormatDate(t, layout)), nil
	}, opts...)
}
