package conf

import (
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConflictingDirectives is returned when a location enables both variants.
	ErrConflictingDirectives = errors.New("fun and fun_static are mutually exclusive")
	// ErrDuplicateLocation is returned when a server declares a path twice.
	ErrDuplicateLocation = errors.New("duplicate location")
	// ErrDuplicateListen is returned when two servers listen on the same address.
	ErrDuplicateListen = errors.New("duplicate listen address")
	// ErrInvalidLocation is returned for a location without an absolute path.
	ErrInvalidLocation = errors.New("invalid location")
)

// File is the configuration file. Its own scope is the main scope.
type File struct {
	Scope   `yaml:",inline"`
	Servers []ServerBlock `yaml:"servers"`
}

// ServerBlock declares one listening server.
type ServerBlock struct {
	Scope     `yaml:",inline"`
	Listen    string          `yaml:"listen"`
	Locations []LocationBlock `yaml:"locations"`
}

// LocationBlock declares one path on a server. Fun and FunStatic take no arguments and select the variant.
type LocationBlock struct {
	Scope     `yaml:",inline"`
	Path      string `yaml:"path"`
	Fun       bool   `yaml:"fun"`
	FunStatic bool   `yaml:"fun_static"`
}

// Variant selects what a location serves.
type Variant int

const (
	// VariantNone means the location has no fun handler.
	VariantNone Variant = iota
	// VariantStatic serves the fixed string.
	VariantStatic
	// VariantGenerated serves the generated PNG.
	VariantGenerated
)

func (v Variant) String() string {
	switch v {
	case VariantStatic:
		return "fun_static"
	case VariantGenerated:
		return "fun"
	default:
		return "none"
	}
}

// Server is a server with every scope merged and validated.
type Server struct {
	Listen    string
	Radius    int
	Locations []Location
}

// Location is a location with every scope merged and validated.
type Location struct {
	Path    string
	Variant Variant
	Radius  int
}

// Load decodes a configuration file. Unknown keys and any document after the first are rejected.
func Load(r io.Reader) (File, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, nil
		}

		return f, errors.Wrap(err, "decode config")
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return File{}, errors.New("decode config: more than one yaml document")
	}

	return f, nil
}

// Default returns the configuration used when no file is given: the fixed string at the root and the image at
// /fun.png.
func Default(listen string) File {
	return File{Servers: []ServerBlock{{
		Listen: listen,
		Locations: []LocationBlock{
			{Path: "/", FunStatic: true},
			{Path: "/fun.png", Fun: true},
		},
	}}}
}

// Resolve merges every scope of the file, from base over the main scope and the server to the location, and
// validates each merged scope. Servers without a listen address use defaultListen.
func Resolve(base Scope, f File, defaultListen string) ([]Server, error) {
	main := MergeScope(base, f.Scope)
	if err := Validate(main); err != nil {
		return nil, errors.Wrap(err, "main scope")
	}

	for i := range f.Servers {
		if f.Servers[i].Listen == "" {
			f.Servers[i].Listen = defaultListen
		}
	}

	listens := lo.Map(f.Servers, func(s ServerBlock, _ int) string { return s.Listen })
	if dups := lo.FindDuplicates(listens); len(dups) > 0 {
		return nil, errors.Wrapf(ErrDuplicateListen, "%v", dups)
	}

	servers := make([]Server, 0, len(f.Servers))
	for _, sb := range f.Servers {
		srv, err := resolveServer(main, sb)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", sb.Listen)
		}

		servers = append(servers, srv)
	}

	return servers, nil
}

func resolveServer(main Scope, sb ServerBlock) (Server, error) {
	scope := MergeScope(main, sb.Scope)
	if err := Validate(scope); err != nil {
		return Server{}, err
	}

	paths := lo.Map(sb.Locations, func(l LocationBlock, _ int) string { return l.Path })
	if dups := lo.FindDuplicates(paths); len(dups) > 0 {
		return Server{}, errors.Wrapf(ErrDuplicateLocation, "%v", dups)
	}

	srv := Server{Listen: sb.Listen, Radius: scope.RadiusValue()}
	for _, lb := range sb.Locations {
		loc, err := resolveLocation(scope, lb)
		if err != nil {
			return Server{}, errors.Wrapf(err, "location %q", lb.Path)
		}

		srv.Locations = append(srv.Locations, loc)
	}

	return srv, nil
}

func resolveLocation(server Scope, lb LocationBlock) (Location, error) {
	if err := validatePath(lb.Path); err != nil {
		return Location{}, err
	}

	if lb.Fun && lb.FunStatic {
		return Location{}, ErrConflictingDirectives
	}

	scope := MergeScope(server, lb.Scope)
	if err := Validate(scope); err != nil {
		return Location{}, err
	}

	loc := Location{Path: lb.Path, Radius: scope.RadiusValue()}
	switch {
	case lb.Fun:
		loc.Variant = VariantGenerated
	case lb.FunStatic:
		loc.Variant = VariantStatic
	}

	return loc, nil
}

// validatePath accepts absolute literal paths that the host mux can register. Wildcards and whitespace are
// rejected, matching is by plain path only.
func validatePath(path string) (err error) {
	switch {
	case !strings.HasPrefix(path, "/"):
		return errors.Wrap(ErrInvalidLocation, "path must start with /")
	case strings.ContainsAny(path, "{}"):
		return errors.Wrap(ErrInvalidLocation, "path must not contain wildcards")
	case strings.IndexFunc(path, unicode.IsSpace) >= 0:
		return errors.Wrap(ErrInvalidLocation, "path must not contain whitespace")
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrInvalidLocation, "%v", r)
		}
	}()

	http.NewServeMux().Handle(path, http.NotFoundHandler())

	return nil
}
