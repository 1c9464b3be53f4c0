package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig configuração da aplicação
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Planilha PlanilhaConfig `toml:"planilha"`
	Usuarios UsuariosConfig `toml:"usuarios"`
	GitHub   GitHubConfig   `toml:"github"`
}

// ServerConfig configuração do servidor HTTP
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configuração de dados locais
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// PlanilhaConfig origem da planilha do SharePoint
type PlanilhaConfig struct {
	// URL de download direto (sempre baixada de novo, sem cache)
	URL string `toml:"url"`
	// A aba verdadeira é "CDIAutomtico1" (sem acento); a localização é tolerante
	AbaHint string `toml:"aba_hint"`
}

// UsuariosConfig origem da lista de usuários
type UsuariosConfig struct {
	URL string `toml:"url"`
}

// GitHubConfig coordenadas de publicação do users.json
type GitHubConfig struct {
	APIBase string `toml:"api_base"`
	Owner   string `toml:"owner"`
	Repo    string `toml:"repo"`
	Branch  string `toml:"branch"`
	Path    string `toml:"path"`
}

// DefaultConfig configuração padrão
func DefaultConfig() *AppConfig {
	gh := GitHubConfig{
		APIBase: "https://api.github.com",
		Owner:   "ControladoriaGen",
		Repo:    "analitico-cdi",
		Branch:  "main",
		Path:    "public/users.json",
	}
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Planilha: PlanilhaConfig{
			URL:     "https://generosocombr-my.sharepoint.com/personal/controladoria_generoso_com_br/_layouts/15/download.aspx?share=ESLYowVkuEBEu82Jfnk-JQ0BfoDxwkd99RFtXTEzbARXEg&download=1",
			AbaHint: "CDIAutomtico1",
		},
		Usuarios: UsuariosConfig{
			URL: fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", gh.Owner, gh.Repo, gh.Branch, gh.Path),
		},
		GitHub: gh,
	}
}

// GetExeDir obtém o diretório do executável
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig carrega a configuração do config.toml no diretório do
// executável, com sobreposição por variáveis de ambiente (um .env ao
// lado do executável também é lido, se existir).
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// sem diretório do executável, usa o diretório atual
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// .env é opcional
	_ = godotenv.Load(filepath.Join(exeDir, ".env"))

	applyEnv(config)

	return config, nil
}

// applyEnv sobrepõe a configuração com variáveis de ambiente
func applyEnv(config *AppConfig) {
	if v := os.Getenv("CDI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("CDI_PLANILHA_URL"); v != "" {
		config.Planilha.URL = v
	}
	if v := os.Getenv("CDI_ABA_HINT"); v != "" {
		config.Planilha.AbaHint = v
	}
	if v := os.Getenv("CDI_USERS_URL"); v != "" {
		config.Usuarios.URL = v
	}
	if v := os.Getenv("CDI_GH_API_BASE"); v != "" {
		config.GitHub.APIBase = v
	}
	if v := os.Getenv("CDI_GH_OWNER"); v != "" {
		config.GitHub.Owner = v
	}
	if v := os.Getenv("CDI_GH_REPO"); v != "" {
		config.GitHub.Repo = v
	}
	if v := os.Getenv("CDI_GH_BRANCH"); v != "" {
		config.GitHub.Branch = v
	}
	if v := os.Getenv("CDI_GH_PATH"); v != "" {
		config.GitHub.Path = v
	}
}

// SaveConfig grava a configuração no config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir garante que o diretório de dados existe
// O diretório fica ao lado do executável
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
