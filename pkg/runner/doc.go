/*
Package runner bridges the caesartm machine and the outside world.

It sanitizes raw user text down to the machine's alphabet, validates keys,
drives the encode, decode and audit flows, and persists finished runs through a
ports.RunStore. The CLI, the HTTP server and the MCP server all execute through
a Runner, so validation and persistence behave identically on every surface.

# Usage

	r := runner.NewRunner(
		runner.WithStore(memory.NewStore()),
		runner.WithLogger(logger),
	)

	res, err := r.Encode(ctx, 3, "Hello, World!")
	if res == nil {
		log.Fatal(err)
	}
	fmt.Println(res.Run.Output) // KHOORZRUOG
*/
package runner
