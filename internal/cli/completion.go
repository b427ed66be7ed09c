package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/toolchain"
)

// flagSpec describes one flag for completion scripts.
type flagSpec struct {
	long  string
	short string
	desc  string
	value string // Value completion: "" (none), "dir", "toolchain", "shell" or "any"
}

// completionFlags returns the flags offered by completion scripts.
func completionFlags() []flagSpec {
	return []flagSpec{
		{"jobs", "j", "Number of parallel workers", "any"},
		{"root", "", "Directory to search for packages", "dir"},
		{"toolchain", "", "Toolchain profile", "toolchain"},
		{"timeout", "", "Per-package timeout", "any"},
		{"list", "", "List discovered packages", ""},
		{"quiet", "q", "Only print failures", ""},
		{"verbose", "v", "Print commands and durations", ""},
		{"no-color", "", "Disable colored output", ""},
		{"completion", "", "Print shell completion", "shell"},
		{"help", "h", "Show help", ""},
		{"version", "", "Show version", ""},
	}
}

// cmdCompletion prints a completion script for shell.
func cmdCompletion(w *output.Writer, shell string) int {
	switch shell {
	case "bash":
		w.Print("%s", generateBashCompletion("partest"))
	case "zsh":
		w.Print("%s", generateZshCompletion("partest"))
	case "fish":
		w.Print("%s", generateFishCompletion("partest"))
	default:
		w.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return errors.ExitConfigError
	}
	return errors.ExitSuccess
}

func generateBashCompletion(cmdName string) string {
	var flags []string
	for _, f := range completionFlags() {
		flags = append(flags, "--"+f.long)
		if f.short != "" {
			flags = append(flags, "-"+f.short)
		}
	}
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	return fmt.Sprintf(`# %[1]s bash completion
# Add to ~/.bashrc: eval "$(%[1]s --completion bash)"

%[2]s() {
    local cur prev words cword
    _init_completion || return

    case "${prev}" in
        --root)
            _filedir -d
            return
            ;;
        --toolchain)
            COMPREPLY=($(compgen -W "%[3]s" -- "${cur}"))
            return
            ;;
        --completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
        -j|--jobs|--timeout)
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "%[4]s" -- "${cur}"))
    fi
}

complete -F %[2]s %[1]s
`, cmdName, funcName, strings.Join(toolchain.List(), " "), strings.Join(flags, " "))
}

func generateZshCompletion(cmdName string) string {
	toolchains := strings.Join(toolchain.List(), " ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "#compdef %s\n# %s zsh completion\n# Add to ~/.zshrc: eval \"$(%s --completion zsh)\"\n\n", cmdName, cmdName, cmdName)
	fmt.Fprintf(&sb, "_%s() {\n    _arguments -s \\\n", strings.ReplaceAll(cmdName, "-", "_"))
	for _, f := range completionFlags() {
		var action string
		switch f.value {
		case "dir":
			action = ":dir:_files -/"
		case "toolchain":
			action = fmt.Sprintf(":toolchain:(%s)", toolchains)
		case "shell":
			action = ":shell:(bash zsh fish)"
		case "any":
			action = ":value:"
		}
		if f.short != "" {
			fmt.Fprintf(&sb, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.short, f.long, f.short, f.long, f.desc, action)
		} else {
			fmt.Fprintf(&sb, "        '--%s[%s]%s' \\\n", f.long, f.desc, action)
		}
	}
	sb.WriteString("        '*::test arguments:_default'\n}\n\n")
	fmt.Fprintf(&sb, "compdef _%s %s\n", strings.ReplaceAll(cmdName, "-", "_"), cmdName)
	return sb.String()
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s fish completion\n# Add to config: %s --completion fish | source\n\n", cmdName, cmdName)

	for _, f := range completionFlags() {
		line := fmt.Sprintf("complete -c %s -l %s", cmdName, f.long)
		if f.short != "" {
			line += " -s " + f.short
		}
		switch f.value {
		case "dir":
			line += " -r -a '(__fish_complete_directories)'"
		case "toolchain":
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(toolchain.List(), " "))
		case "shell":
			line += " -x -a 'bash zsh fish'"
		case "any":
			line += " -x"
		}
		line += fmt.Sprintf(" -d '%s'\n", f.desc)
		sb.WriteString(line)
	}
	return sb.String()
}
