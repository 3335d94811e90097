// Command tourguide serves a landing page with a live product tour and
// checks tour definitions against the page they annotate.
package main

import (
	"fmt"
	"os"

	"github.com/livetemplate/tourguide/cmd/tourguide/commands"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "new":
		err = commands.NewCommand(args)
	case "serve":
		err = commands.ServeCommand(args)
	case "validate":
		err = commands.ValidateCommand(args)
	case "steps":
		err = commands.StepsCommand(args)
	case "version":
		fmt.Printf("tourguide version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("tourguide - Guided product tours for landing pages")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tourguide new <name>            Create a project with a starter tour")
	fmt.Println("  tourguide serve [directory]     Start the tour server")
	fmt.Println("  tourguide validate [directory]  Check every step target exists on the page")
	fmt.Println("  tourguide steps [directory]     Print the step table")
	fmt.Println("  tourguide version               Show version")
	fmt.Println("  tourguide help                  Show this help")
	fmt.Println()
	fmt.Println("Serve flags:")
	fmt.Println("  -p, --port PORT      Listen port (default 8080, env TOURGUIDE_PORT)")
	fmt.Println("      --host HOST      Listen host (default localhost, env TOURGUIDE_HOST)")
	fmt.Println("  -c, --config FILE    Config file (default <directory>/tourguide.yaml)")
	fmt.Println("  -w, --watch          Reload the page when .md or .yaml files change")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tourguide new my-product                   # Scaffold a project")
	fmt.Println("  tourguide serve examples/landing           # Serve the example page")
	fmt.Println("  tourguide serve . --port 3000 --watch      # Serve with live reload")
	fmt.Println("  tourguide validate examples/landing        # Check step targets")
	fmt.Println("  tourguide steps . --format=json            # Step table as JSON")
}
