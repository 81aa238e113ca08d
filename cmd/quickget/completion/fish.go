package completion

const fishScript = `# fish completion for quickget

# Main commands
complete -c quickget -f -n '__fish_use_subcommand' -a get -d 'Fetch one resource with a single GET'
complete -c quickget -f -n '__fish_use_subcommand' -a bench -d 'Fetch a resource repeatedly and report latency'
complete -c quickget -f -n '__fish_use_subcommand' -a config -d 'Manage configuration file'
complete -c quickget -f -n '__fish_use_subcommand' -a completion -d 'Generate shell completion scripts'

# shared fetch flags
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -o 6 -d 'Use IPv6'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l timeout -d 'Connect and receive timeout'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l port -d 'Port to connect to'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -s H -l header -d 'Extra header line'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l no-compress -d 'Do not negotiate gzip'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l no-fastopen -d 'Skip TCP Fast Open'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l single-thread -d 'Connect on the calling thread'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -l metrics -d 'Dump metrics to stderr'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -s v -l verbose -d 'Verbose logging'
complete -c quickget -f -n '__fish_seen_subcommand_from get bench' -s h -l help -d 'Show help'

# get command
complete -c quickget -f -n '__fish_seen_subcommand_from get' -s i -l include -d 'Print response headers'
complete -c quickget -r -n '__fish_seen_subcommand_from get' -s o -l output -d 'Write body to file'

# bench command
complete -c quickget -f -n '__fish_seen_subcommand_from bench' -s n -l count -d 'Number of fetches'
complete -c quickget -f -n '__fish_seen_subcommand_from bench' -l rate -d 'Fetches per second'

# config command
complete -c quickget -f -n '__fish_seen_subcommand_from config' -a 'init' -d 'Initialize configuration'
complete -c quickget -f -n '__fish_seen_subcommand_from config' -a 'show' -d 'Display current configuration'
complete -c quickget -f -n '__fish_seen_subcommand_from config' -a 'edit' -d 'Open config file in editor'
complete -c quickget -f -n '__fish_seen_subcommand_from config' -a 'path' -d 'Show config file path'

# completion command
complete -c quickget -f -n '__fish_seen_subcommand_from completion' -a 'bash' -d 'Bash completion'
complete -c quickget -f -n '__fish_seen_subcommand_from completion' -a 'zsh' -d 'Zsh completion'
complete -c quickget -f -n '__fish_seen_subcommand_from completion' -a 'fish' -d 'Fish completion'
complete -c quickget -f -n '__fish_seen_subcommand_from completion' -a 'powershell' -d 'PowerShell completion'
`
