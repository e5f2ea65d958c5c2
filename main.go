package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/rauleduardorivassanz/ai-tutor/document"
	"github.com/rauleduardorivassanz/ai-tutor/server"
	"github.com/rauleduardorivassanz/ai-tutor/tutor"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "config/config.json", "path to config.json")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	flag.Parse()

	cfg, err := tutor.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	docs := document.NewLibrary(document.NewPDFExtractor(log.Default()), log.Default())
	if err := docs.LoadDir(cfg.DocumentsDir, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Printf("loaded %d documents from %s", len(docs.List("")), cfg.DocumentsDir)

	agent, err := tutor.NewAgent(llm, docs, tutor.NewStore(), log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv, err := server.New(agent, docs, cfg.APITokens, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listen := cfg.ServerAddr
	if *addr != "" {
		listen = *addr
	}
	if listen == "" {
		listen = ":8080"
	}
	log.Printf("Starting tutor server on %s", listen)
	if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLLM(cfg tutor.Config) (tutor.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch cfg.LLM.Provider {
	case "openai":
		return tutor.NewOpenAILLMFromConfig(&tutor.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base_url is required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return tutor.NewOpenAILLMFromConfig(&tutor.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "mock":
		return tutor.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
