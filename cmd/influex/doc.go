// Command influex is the operational CLI for the Influex backend.
//
// From the repository root:
//
//	influex serve           # start the HTTP server
//	influex migrate         # run pending migrations
//	influex migrate:rollback
//	influex migrate:status
//	influex seed            # seed demo data
//	influex route:list      # list API routes
//	influex queue:work      # run queue workers standalone
//	influex schedule:run    # run the scheduler standalone
package main
