package main

import (
	"context"

	"hiscores-backend/cmd/hiscore-cli/commands"
	"hiscores-backend/lib/serviceutil"
	"hiscores-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "hiscore-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
