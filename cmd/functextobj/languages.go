package main

import (
	"slices"
	"strings"

	"github.com/panbanda/functextobj/internal/output"
	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/panbanda/functextobj/pkg/textobj"
	"github.com/urfave/cli/v2"
)

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:   "languages",
		Usage:  "List supported languages and the syntax nodes treated as functions",
		Action: runLanguagesCmd,
	}
}

type languageInfo struct {
	Language parser.Language `json:"language"`
	Enabled  bool            `json:"enabled"`
	Lambdas  bool            `json:"lambdas"`
	Kinds    []string        `json:"kinds"`
}

func runLanguagesCmd(c *cli.Context) error {
	cfg := appConfig(c)

	var infos []languageInfo
	var rows [][]string
	for _, lang := range textobj.SupportedLanguages() {
		info := languageInfo{
			Language: lang,
			Enabled:  textobj.ForLanguage(lang, cfg.AdapterOptions()...) != nil,
			Lambdas:  slices.ContainsFunc(cfg.Languages.Lambdas, func(name string) bool { return parser.ParseLanguage(name) == lang }),
			Kinds:    textobj.FunctionKinds(lang),
		}
		infos = append(infos, info)
		rows = append(rows, []string{string(lang), yesNo(info.Enabled), yesNo(info.Lambdas), strings.Join(info.Kinds, ", ")})
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.NewTable("Languages", []string{"Language", "Enabled", "Lambdas", "Function nodes"}, rows, nil, infos))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
