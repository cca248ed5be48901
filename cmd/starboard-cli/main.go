package main

import (
	"context"

	"starboard-backend/cmd/starboard-cli/commands"
	"starboard-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "starboard-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
