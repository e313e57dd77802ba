package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ColumnMap: nomes das columnas na folla de orixe.
type ColumnMap struct {
	Airport  string `yaml:"aeropuerto"`
	ID       string `yaml:"expediente"`
	Object   string `yaml:"objeto"`
	Base     string `yaml:"presupuesto"`
	Awarded  string `yaml:"adjudicado"`
	Date     string `yaml:"fecha"`
	Company  string `yaml:"adjudicatario"`
	Discount string `yaml:"baja"`
}

// columnas do export de AENA 2024
func DefaultColumns() ColumnMap {
	return ColumnMap{
		Airport:  "Aeropuerto",
		ID:       "Número de expediente",
		Object:   "Objeto del Contrato",
		Base:     "Presupuesto base sin impuestos",
		Awarded:  "Importe adjudicación sin impuestos licitación/lote",
		Date:     "Fecha presentación licitación",
		Company:  "Adjudicatario licitación/lote",
		Discount: "%baja",
	}
}

// loadColumnMap aplica sobre os valores por defecto as claves presentes no YAML.
func loadColumnMap(path string) (ColumnMap, error) {
	cols := DefaultColumns()
	if path == "" {
		return cols, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cols, fmt.Errorf("columns: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cols); err != nil && err != io.EOF {
		return cols, fmt.Errorf("columns: parse %s: %w", path, err)
	}
	return cols, nil
}

type Config struct {
	File        string
	Sheet       string
	Table       string
	ColumnsFile string
	Mode        string
	Addr        string
	Debug       bool
	Columns     ColumnMap
}

func (c *Config) source() sourceConfig {
	return sourceConfig{Path: c.File, Sheet: c.Sheet, Table: c.Table, Cols: c.Columns}
}

// loadConfig le .env (se existe), despois as flags; cada flag colle o seu
// valor por defecto da variable de contorna correspondente.
func loadConfig(args []string) (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("licitaena", flag.ContinueOnError)
	fs.StringVar(&cfg.File, "file", getEnv("LICITAENA_FILE", ""), "ruta á folla XLSX ou á base SQLite")
	fs.StringVar(&cfg.Sheet, "sheet", getEnv("LICITAENA_SHEET", ""), "folla do XLSX (por defecto a primeira)")
	fs.StringVar(&cfg.Table, "table", getEnv("LICITAENA_TABLE", "licitaciones"), "táboa da base SQLite")
	fs.StringVar(&cfg.ColumnsFile, "columns", getEnv("LICITAENA_COLUMNS", ""), "YAML cos nomes das columnas")
	fs.StringVar(&cfg.Mode, "mode", getEnv("LICITAENA_MODE", "web"), "web|tui")
	fs.StringVar(&cfg.Addr, "addr", getEnv("LICITAENA_ADDR", "127.0.0.1:8080"), "enderezo para o modo web")
	fs.BoolVar(&cfg.Debug, "debug", getEnvBool("LICITAENA_DEBUG", false), "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.File == "" {
		return nil, fmt.Errorf("debe especificar o ficheiro de datos con --file ou LICITAENA_FILE")
	}
	if cfg.Mode != "web" && cfg.Mode != "tui" {
		return nil, fmt.Errorf("modo descoñecido: %s", cfg.Mode)
	}

	cols, err := loadColumnMap(cfg.ColumnsFile)
	if err != nil {
		return nil, err
	}
	cfg.Columns = cols

	if envErr != nil && cfg.Debug {
		fmt.Fprintln(os.Stderr, "[config] sen .env, úsanse as variables do sistema")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
