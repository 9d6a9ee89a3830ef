package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"facecrop/internal/domain/entity"
)

// Ключи настроек; те же имена у флагов командной строки и переменных окружения.
const (
	KeySourceFolder     = "SOURCE_FOLDER"
	KeyFileMask         = "FILE_MASK"
	KeyFaceMinSize      = "FACE_MINSIZE"
	KeySearchMode       = "HAAR_SEARCHMODE"
	KeyScalingFactor    = "SCALING_FACTOR"
	KeyScalingMode      = "SCALING_MODE"
	KeyUseParallel      = "USE_PARALLEL"
	KeySuppression      = "SUPPRESSION"
	KeyDestFolder       = "DEST_FOLDER"
	KeyOutPrefix        = "OUT_PREFIX"
	KeyOutFormat        = "OUT_FORMAT"
	KeyOutSize          = "OUT_SIZE"
	KeyRemoveDuplicates = "REMOVE_DUPLICATES"
	KeyDetector         = "DETECTOR"
	KeyCascadeFile      = "CASCADE_FILE"
	KeyLogFile          = "LOG_FILE"
	KeyTelegramToken    = "TELEGRAM_TOKEN"
	KeyTelegramChatID   = "TELEGRAM_CHAT_ID"

	// EnvSettingsFile переменная окружения с путём к файлу настроек
	EnvSettingsFile = "FACECROP_CONFIG"
	// DefaultSettingsFile файл настроек по умолчанию
	DefaultSettingsFile = "facecrop.ini"
)

// keyOrder порядок ключей в шаблоне файла настроек
var keyOrder = []string{
	KeySourceFolder, KeyFileMask, KeyFaceMinSize, KeySearchMode, KeyScalingFactor,
	KeyScalingMode, KeyUseParallel, KeySuppression, KeyDestFolder, KeyOutPrefix,
	KeyOutFormat, KeyOutSize, KeyRemoveDuplicates, KeyDetector, KeyCascadeFile,
	KeyLogFile, KeyTelegramToken, KeyTelegramChatID,
}

// defaults значения по умолчанию
var defaults = map[string]string{
	KeySourceFolder:     "",
	KeyFileMask:         "*.*",
	KeyFaceMinSize:      "30",
	KeySearchMode:       "3",
	KeyScalingFactor:    "1.2",
	KeyScalingMode:      "0",
	KeyUseParallel:      "true",
	KeySuppression:      "2",
	KeyDestFolder:       "",
	KeyOutPrefix:        "outp",
	KeyOutFormat:        "png",
	KeyOutSize:          "256",
	KeyRemoveDuplicates: "true",
	KeyDetector:         "pigo",
	KeyCascadeFile:      "",
	KeyLogFile:          "facecrop.log",
	KeyTelegramToken:    "",
	KeyTelegramChatID:   "",
}

// usage описания флагов
var usage = map[string]string{
	KeySourceFolder:     "The source path for images to be cropped",
	KeyFileMask:         "The file pattern to search for in SOURCE_FOLDER",
	KeyFaceMinSize:      "The minimum size of faces to detect",
	KeySearchMode:       "Search mode (0 default, 1 single, 2 no overlap, 3 average)",
	KeyScalingFactor:    "Scaling factor",
	KeyScalingMode:      "Scaling mode (0 smaller to larger, 1 larger to smaller)",
	KeyUseParallel:      "Use parallelism in face detection",
	KeySuppression:      "Number of similar detections required to keep a face",
	KeyDestFolder:       "The destination folder in which to save cropped faces",
	KeyOutPrefix:        "Prefix to impose to output files",
	KeyOutFormat:        "Output format for cropped faces (BMP; PNG; JPG; JPEG)",
	KeyOutSize:          "Output file size",
	KeyRemoveDuplicates: "Delete duplicate output files",
	KeyDetector:         "Face detector backend (pigo, opencv)",
	KeyCascadeFile:      "Cascade file for the face detector",
	KeyLogFile:          "Log file path",
	KeyTelegramToken:    "Telegram bot token for the batch report",
	KeyTelegramChatID:   "Telegram chat ID for the batch report",
}

// aliases имена ключей старого формата файла настроек
var aliases = map[string]string{
	"HAAR_MINSIZE":        KeyFaceMinSize,
	"SEARCH_MODE":         KeySearchMode,
	"PARALLEL_PROCESSING": KeyUseParallel,
	"DESTINATION_FOLDER":  KeyDestFolder,
	"OUTPUT_PREFIX":       KeyOutPrefix,
	"OUTPUT_TYPE":         KeyOutFormat,
	"OUTPUT_SIZE":         KeyOutSize,
}

// ErrTemplateCreated файл настроек не найден и создан заново
var ErrTemplateCreated = errors.New("settings file template created")

type Config struct {
	SourceFolder     string
	FileMask         string
	Detection        entity.DetectionParams
	DestFolder       string
	OutPrefix        string
	OutFormat        string
	OutSize          int
	RemoveDuplicates bool
	Detector         string
	CascadeFile      string
	LogFile          string
	TelegramToken    string
	TelegramChatID   int64
	SettingsFile     string
}

// Load собирает настройки: флаги, затем окружение, затем файл настроек, затем значения по умолчанию.
func Load(args []string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	flags := flag.NewFlagSet("facecrop", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	settingsPath := flags.String("config", "", "Settings file (KEY = value lines)")
	flagValues := make(map[string]*string, len(keyOrder))
	for _, key := range keyOrder {
		flagValues[key] = flags.String(key, defaults[key], usage[key])
	}
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrConfig, err)
	}

	explicit := make(map[string]string)
	flags.Visit(func(f *flag.Flag) {
		if _, ok := flagValues[f.Name]; ok {
			explicit[f.Name] = f.Value.String()
		}
	})

	path := *settingsPath
	if path == "" {
		path = os.Getenv(EnvSettingsFile)
	}
	if path == "" {
		path = DefaultSettingsFile
	}

	fileValues, err := readSettings(path)
	fileMissing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !fileMissing {
		return nil, fmt.Errorf("%w: read settings file %s: %v", entity.ErrConfig, path, err)
	}

	lookup := func(key string) string {
		if v, ok := explicit[key]; ok {
			return v
		}
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		if v, ok := fileValues[key]; ok {
			return v
		}
		return defaults[key]
	}

	if fileMissing && lookup(KeySourceFolder) == "" && lookup(KeyDestFolder) == "" {
		if err := WriteTemplate(path); err != nil {
			return nil, fmt.Errorf("%w: write settings template %s: %v", entity.ErrConfig, path, err)
		}
		return nil, fmt.Errorf("%w: %w: settings file %s not found, now created; check its parameters and restart", entity.ErrConfig, ErrTemplateCreated, path)
	}

	cfg, err := build(lookup)
	if err != nil {
		return nil, err
	}
	if !fileMissing {
		cfg.SettingsFile = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readSettings читает файл настроек и приводит старые имена ключей к новым
func readSettings(path string) (map[string]string, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToUpper(strings.TrimSpace(k))
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		values[key] = strings.TrimSpace(v)
	}
	return values, nil
}

func build(lookup func(string) string) (*Config, error) {
	p := &parser{lookup: lookup}
	cfg := &Config{
		SourceFolder: lookup(KeySourceFolder),
		FileMask:     lookup(KeyFileMask),
		Detection: entity.DetectionParams{
			MinSize:     p.intVal(KeyFaceMinSize),
			SearchMode:  entity.SearchMode(p.intVal(KeySearchMode)),
			ScaleFactor: p.floatVal(KeyScalingFactor),
			ScalingMode: entity.ScalingMode(p.intVal(KeyScalingMode)),
			UseParallel: p.boolVal(KeyUseParallel),
			Suppression: p.intVal(KeySuppression),
		},
		DestFolder:       lookup(KeyDestFolder),
		OutPrefix:        lookup(KeyOutPrefix),
		OutFormat:        lookup(KeyOutFormat),
		OutSize:          p.intVal(KeyOutSize),
		RemoveDuplicates: p.boolVal(KeyRemoveDuplicates),
		Detector:         lookup(KeyDetector),
		CascadeFile:      lookup(KeyCascadeFile),
		LogFile:          lookup(KeyLogFile),
		TelegramToken:    lookup(KeyTelegramToken),
	}
	if chat := lookup(KeyTelegramChatID); chat != "" {
		cfg.TelegramChatID = p.int64Val(KeyTelegramChatID)
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// Validate проверяет обязательные параметры и диапазоны
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceFolder) == "" {
		return fmt.Errorf("%w: %s is required", entity.ErrConfig, KeySourceFolder)
	}
	if strings.TrimSpace(c.DestFolder) == "" {
		return fmt.Errorf("%w: %s is required", entity.ErrConfig, KeyDestFolder)
	}
	if err := c.Detection.Validate(); err != nil {
		return err
	}
	return c.OutputSpec().Validate()
}

// OutputSpec возвращает параметры вывода
func (c *Config) OutputSpec() entity.OutputSpec {
	return entity.NewOutputSpec(c.DestFolder, c.OutPrefix, c.OutFormat, c.OutSize)
}

// NotifyEnabled сообщает, заданы ли данные для отправки итога в Telegram
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Usage печатает список флагов
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: facecrop [-config file] [-KEY value ...]")
	for _, key := range keyOrder {
		fmt.Fprintf(w, "  -%s\t%s (default %q)\n", key, usage[key], defaults[key])
	}
}

// WriteTemplate пишет файл настроек со значениями по умолчанию
func WriteTemplate(path string) error {
	var b strings.Builder
	for _, key := range keyOrder {
		v := defaults[key]
		if v == "" {
			v = `""`
		}
		fmt.Fprintf(&b, "%s = %s\n", key, v)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// parser разбирает числа и флаги, запоминая первую ошибку
type parser struct {
	lookup func(string) string
	err    error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: invalid %s value %q: %v", entity.ErrConfig, key, value, err)
	}
}

func (p *parser) intVal(key string) int {
	v := p.lookup(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return n
}

func (p *parser) int64Val(key string) int64 {
	v := p.lookup(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
	}
	return n
}

func (p *parser) floatVal(key string) float64 {
	v := strings.Replace(p.lookup(key), ",", ".", 1)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
	}
	return f
}

func (p *parser) boolVal(key string) bool {
	v := p.lookup(key)
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return b
}
