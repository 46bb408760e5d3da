package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/rate/internal/auth"
	"github.com/idilsaglam/rate/internal/ui"
)

func doAuthLogin(opt Options) int {
	fmt.Print("Paste your token: ")
	line, err := bufio.NewReader(opt.In).ReadString('\n')
	token := strings.TrimSpace(line)
	if token == "" {
		if err != nil {
			ui.Fail("read token: " + err.Error())
		} else {
			ui.Fail("read token: empty token")
		}
		return 1
	}
	if err := auth.SetToken(token); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.TokenEnv + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail("status: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Println(ui.Current().Muted.Render("not logged in"))
		fmt.Println("Run: rate auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + auth.TokenEnv)
	return 0
}

// whoami decodes the JWT locally (unsigned); opaque tokens print basic info.
func doAuthWhoAmI() int {
	ti, _ := auth.GetToken()
	if ti == nil {
		ui.Fail("not logged in. Run: rate auth login")
		return 2
	}
	c, err := auth.Inspect(ti.Token)
	if err != nil {
		fmt.Println("Opaque token (cannot introspect locally).")
		fmt.Println("source:", ti.Source)
		return 0
	}
	fmt.Println("user:", c.Subject)
	if c.Email != "" {
		fmt.Println("email:", c.Email)
	}
	fmt.Println("email verified:", c.EmailVerified)
	if !c.EmailVerified {
		fmt.Println(ui.Current().Muted.Render(hintVerify))
	}
	return 0
}
