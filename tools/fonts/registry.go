package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"gitlab.com/mediafxuz/media-fx/pkg/logger"
)

// Font is one registry entry. Source tells which namespace it came
// from: bundled fonts ship with the service, user fonts are uploaded,
// system fonts are discovered on the host.
type Font struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	FileName    string `json:"filename"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	Path        string `json:"-"`
}

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

var bundledFonts = []Font{
	{Key: "roboto", Name: "Roboto", FileName: "Roboto-Regular.ttf", Description: "Default sans-serif"},
	{Key: "roboto-bold", Name: "Roboto Bold", FileName: "Roboto-Bold.ttf"},
	{Key: "open-sans", Name: "Open Sans", FileName: "OpenSans-Regular.ttf"},
	{Key: "montserrat", Name: "Montserrat", FileName: "Montserrat-Regular.ttf"},
	{Key: "noto-sans", Name: "Noto Sans", FileName: "NotoSans-Regular.ttf", Description: "Wide script coverage"},
}

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// Clock supplies the current time; injectable so cache expiry is
// testable.
type Clock func() time.Time

// Registry manages the three font namespaces under one lookup surface.
// Precedence on key collision is bundled, then user, then system; a
// system font never shadows the other two.
type Registry struct {
	dir string
	log logger.Logger

	mu sync.Mutex // serializes user-registry read-modify-write

	system systemCache
}

type systemCache struct {
	mu      sync.Mutex
	fonts   []Font
	scanned time.Time
	ttl     time.Duration
	clock   Clock
}

// NewRegistry ...
func NewRegistry(log logger.Logger, fontsDir string, clock Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		dir: fontsDir,
		log: log,
		system: systemCache{
			ttl:   time.Hour,
			clock: clock,
		},
	}
}

func (r *Registry) userRegistryPath() string {
	return filepath.Join(r.dir, "user", "user-fonts.json")
}

// List returns all available fonts. Bundled entries whose file is
// missing from disk are skipped rather than reported broken.
func (r *Registry) List(includeSystem bool) []Font {
	var out []Font

	for _, f := range bundledFonts {
		p := filepath.Join(r.dir, f.FileName)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		f.Source = "bundled"
		f.Path = p
		out = append(out, f)
	}

	out = append(out, r.userFonts()...)

	if includeSystem {
		seen := map[string]bool{}
		for _, f := range out {
			seen[f.Key] = true
		}
		for _, f := range r.systemFonts() {
			if !seen[f.Key] {
				out = append(out, f)
			}
		}
	}

	return out
}

// Resolve maps a font key to its entry. Unknown keys fail with an error
// naming the key so job failures are diagnosable.
func (r *Registry) Resolve(key string) (*Font, error) {
	for _, f := range r.List(true) {
		if f.Key == key {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("font key %q not found in registry", key)
}

// Upload registers a user font. The source file is copied into the user
// namespace and the registry JSON is rewritten atomically.
func (r *Registry) Upload(key, name, description, srcPath string) (*Font, error) {
	if !keyPattern.MatchString(key) {
		return nil, fmt.Errorf("invalid font key %q: must match %s", key, keyPattern.String())
	}
	if _, err := r.Resolve(key); err == nil {
		return nil, fmt.Errorf("font key %q already exists", key)
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	if !fontExtensions[ext] {
		return nil, fmt.Errorf("unsupported font file type %q", ext)
	}

	fileName := key + ext
	userDir := filepath.Join(r.dir, "user")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("create user fonts dir: %w", err)
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	dest := filepath.Join(userDir, fileName)
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return nil, fmt.Errorf("store font file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	registry := r.readUserRegistry()
	registry, err = sjson.Set(registry, escapeJSONKey(key), map[string]interface{}{
		"name":        name,
		"filename":    fileName,
		"description": description,
		"createdAt":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("update font registry: %w", err)
	}

	if err := r.writeUserRegistry(registry); err != nil {
		os.Remove(dest)
		return nil, err
	}

	return &Font{
		Key:         key,
		Name:        name,
		FileName:    fileName,
		Description: description,
		Source:      "user",
		Path:        dest,
	}, nil
}

// Delete removes a user font and its registry entry. Bundled and system
// fonts cannot be deleted.
func (r *Registry) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registry := r.readUserRegistry()
	entry := gjson.Get(registry, escapeJSONKey(key))
	if !entry.Exists() {
		return fmt.Errorf("font key %q is not a user font", key)
	}

	updated, err := sjson.Delete(registry, escapeJSONKey(key))
	if err != nil {
		return fmt.Errorf("update font registry: %w", err)
	}
	if err := r.writeUserRegistry(updated); err != nil {
		return err
	}

	fileName := entry.Get("filename").String()
	if fileName != "" {
		if err := os.Remove(filepath.Join(r.dir, "user", fileName)); err != nil && !os.IsNotExist(err) {
			r.log.Warn("could not remove font file", logger.String("file", fileName), logger.Error(err))
		}
	}

	return nil
}

func (r *Registry) userFonts() []Font {
	registry := r.readUserRegistry()

	var out []Font
	gjson.Parse(registry).ForEach(func(key, v gjson.Result) bool {
		f := Font{
			Key:         key.String(),
			Name:        v.Get("name").String(),
			FileName:    v.Get("filename").String(),
			Description: v.Get("description").String(),
			Source:      "user",
		}
		f.Path = filepath.Join(r.dir, "user", f.FileName)
		out = append(out, f)
		return true
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) readUserRegistry() string {
	data, err := os.ReadFile(r.userRegistryPath())
	if err != nil {
		return "{}"
	}
	if !gjson.ValidBytes(data) {
		r.log.Warn("user font registry is corrupt, starting fresh")
		return "{}"
	}
	return string(data)
}

// writeUserRegistry writes through a temp file and renames it into
// place so a crash mid-write never leaves a torn registry.
func (r *Registry) writeUserRegistry(content string) error {
	path := r.userRegistryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create user fonts dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("write font registry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace font registry: %w", err)
	}
	return nil
}

// systemFonts scans the host font directories, caching the result for
// the TTL. Repeated job intakes should not pay a directory walk each
// time.
func (r *Registry) systemFonts() []Font {
	c := &r.system
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.fonts != nil && now.Sub(c.scanned) < c.ttl {
		return c.fonts
	}

	c.fonts = scanSystemFonts(systemFontDirs())
	c.scanned = now
	return c.fonts
}

// InvalidateSystemCache forces the next system lookup to rescan
func (r *Registry) InvalidateSystemCache() {
	r.system.mu.Lock()
	r.system.fonts = nil
	r.system.mu.Unlock()
}

func systemFontDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts"}
	case "windows":
		return []string{`C:\Windows\Fonts`}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	}
}

func scanSystemFonts(dirs []string) []Font {
	var out []Font
	seen := map[string]bool{}

	for _, dir := range dirs {
		filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !fontExtensions[ext] {
				return nil
			}

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			key := "system-" + slugify(base)
			if !keyPattern.MatchString(key) || seen[key] {
				return nil
			}
			seen[key] = true

			out = append(out, Font{
				Key:      key,
				Name:     base,
				FileName: filepath.Base(path),
				Source:   "system",
				Path:     path,
			})
			return nil
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// escapeJSONKey protects dots in keys from being read as gjson path
// separators. Valid registry keys cannot contain dots, but the raw key
// still goes through sjson untrusted.
func escapeJSONKey(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}
