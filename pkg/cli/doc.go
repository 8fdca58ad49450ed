/*
Package cli provides command-line interface utilities for the anvil
command.

Error Wrapping:

Commands wrap failures so the shell exit path can report which command
failed:

	return cli.NewCommandError("lint", fmt.Errorf("validation failed"))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
