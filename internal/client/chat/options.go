package chat

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/flagx"
)

// ownFlags are the chat client flags; the rest of os.Args is left to the
// shared configuration.
var ownFlags = flagx.Spec{
	"profile": true, "persona": true, "voice": false, "server": true, "token": true,
}

// Options are the chat client settings.
//
//	-profile string  memory profile (default "default")
//	-persona string  persona used in the prompt (default "Beginner")
//	-voice           treat typed lines as transcribed speech
//	-server string   gRPC address of a running server; empty chats locally
//	-token string    access token for -server (FINASSIST_TOKEN)
type Options struct {
	ProfileID string
	Persona   string
	Voice     bool
	Server    string
	Token     string
}

func ParseOptions(args []string, lookupEnv func(string) (string, bool)) (Options, error) {
	o := Options{ProfileID: common.DefaultProfileID, Persona: session.DefaultPersona}
	if v, ok := lookupEnv("FINASSIST_TOKEN"); ok {
		o.Token = v
	}

	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.ProfileID, "profile", o.ProfileID, "memory profile")
	fs.StringVar(&o.Persona, "persona", o.Persona, "persona")
	fs.BoolVar(&o.Voice, "voice", o.Voice, "voice channel")
	fs.StringVar(&o.Server, "server", o.Server, "gRPC server address")
	fs.StringVar(&o.Token, "token", o.Token, "access token")

	if err := fs.Parse(flagx.Filter(args, ownFlags)); err != nil {
		return Options{}, err
	}
	return o, nil
}
