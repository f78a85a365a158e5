// Command mediactl is a command line client for the media cloud upload and admin APIs.
package main

func main() {
	Execute()
}
